package business

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store persists the (single-tenant) business profile.
type Store interface {
	Get(ctx context.Context) (Profile, error)
	Put(ctx context.Context, p Profile) error
}

// MemoryStore keeps the profile in process memory, seeded with the demo profile.
type MemoryStore struct {
	mu      sync.RWMutex
	profile Profile
}

// NewMemoryStore creates a memory-backed store seeded with DefaultProfile.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{profile: DefaultProfile()}
}

func (s *MemoryStore) Get(ctx context.Context) (Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p := s.profile
	p.FAQs = append([]FAQ(nil), s.profile.FAQs...)
	return p, nil
}

func (s *MemoryStore) Put(ctx context.Context, p Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.profile = p
	s.mu.Unlock()
	return nil
}

// profileDB is the subset of pgxpool.Pool the postgres store needs.
type profileDB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresStore persists the profile in the business_profiles table.
type PostgresStore struct {
	pool profileDB
}

// NewPostgresStore initializes a store backed by pgxpool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	if pool == nil {
		panic("business: pgx pool required")
	}
	return &PostgresStore{pool: pool}
}

// NewPostgresStoreWithDB allows injecting a mock database for testing.
func NewPostgresStoreWithDB(db profileDB) *PostgresStore {
	return &PostgresStore{pool: db}
}

// Get loads the profile row, falling back to the demo default when empty.
func (s *PostgresStore) Get(ctx context.Context) (Profile, error) {
	query := `
		SELECT name, industry, description, faqs, contact_phone, language_preference
		FROM business_profiles
		WHERE id = 1
	`
	var (
		p        Profile
		faqsJSON []byte
		lang     string
	)
	err := s.pool.QueryRow(ctx, query).Scan(
		&p.Name,
		&p.Industry,
		&p.Description,
		&faqsJSON,
		&p.ContactPhone,
		&lang,
	)
	if err == pgx.ErrNoRows {
		return DefaultProfile(), nil
	}
	if err != nil {
		return Profile{}, fmt.Errorf("business: select profile: %w", err)
	}

	if len(faqsJSON) > 0 {
		if err := json.Unmarshal(faqsJSON, &p.FAQs); err != nil {
			return Profile{}, fmt.Errorf("business: decode faqs: %w", err)
		}
	}
	p.LanguagePreference = Language(lang)
	return p, nil
}

// Put upserts the single profile row.
func (s *PostgresStore) Put(ctx context.Context, p Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}

	faqsJSON, err := json.Marshal(p.FAQs)
	if err != nil {
		return fmt.Errorf("business: encode faqs: %w", err)
	}

	query := `
		INSERT INTO business_profiles (id, name, industry, description, faqs, contact_phone, language_preference)
		VALUES (1, $1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			industry = EXCLUDED.industry,
			description = EXCLUDED.description,
			faqs = EXCLUDED.faqs,
			contact_phone = EXCLUDED.contact_phone,
			language_preference = EXCLUDED.language_preference,
			updated_at = now()
	`
	if _, err := s.pool.Exec(ctx, query,
		p.Name,
		p.Industry,
		p.Description,
		faqsJSON,
		p.ContactPhone,
		string(p.LanguagePreference),
	); err != nil {
		return fmt.Errorf("business: upsert profile: %w", err)
	}
	return nil
}
