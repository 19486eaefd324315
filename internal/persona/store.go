package persona

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/brandpoint/intelligence-engine/pkg/common"
	"github.com/brandpoint/intelligence-engine/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrNotFound = errors.New("persona not found")

// DefaultEngines is assigned to new personas that do not name their own
// preferred engines.
var DefaultEngines = []string{"chatgpt", "perplexity", "gemini", "claude"}

type Store struct {
	rdb *redis.Client
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

func personaKey(personaID string) string {
	return "persona:" + personaID
}

const personaIndexKey = "personas:all"

// Create stores a new persona under a fresh ID. Name and brandId are
// required.
func (s *Store) Create(ctx context.Context, p common.Persona) (*common.Persona, error) {
	if p.Name == "" {
		return nil, errors.New("name is required")
	}
	if p.BrandID == "" {
		return nil, errors.New("brandId is required")
	}

	now := time.Now().UTC().Format(time.RFC3339)
	p.PersonaID = uuid.NewString()
	p.CreatedAt = now
	p.UpdatedAt = now
	if len(p.PreferredEngines) == 0 {
		p.PreferredEngines = DefaultEngines
	}
	p.IsActive = true

	if err := s.put(ctx, p); err != nil {
		return nil, err
	}

	logger.Info("[Persona][Create] Created persona", "persona_id", p.PersonaID, "brand_id", p.BrandID)
	return &p, nil
}

// Update replaces the mutable fields of an existing persona. The persona
// must already exist; identity fields are never changed.
func (s *Store) Update(ctx context.Context, personaID string, updated common.Persona) (*common.Persona, error) {
	existing, err := s.Get(ctx, personaID)
	if err != nil {
		return nil, err
	}

	if updated.Name != "" {
		existing.Name = updated.Name
	}
	if updated.Description != "" {
		existing.Description = updated.Description
	}
	if updated.Demographics != nil {
		existing.Demographics = updated.Demographics
	}
	if updated.Psychographics != nil {
		existing.Psychographics = updated.Psychographics
	}
	if updated.QueryPatterns != nil {
		existing.QueryPatterns = updated.QueryPatterns
	}
	if updated.TargetQueries != nil {
		existing.TargetQueries = updated.TargetQueries
	}
	if updated.PreferredEngines != nil {
		existing.PreferredEngines = updated.PreferredEngines
	}
	existing.IsActive = updated.IsActive
	existing.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	if err := s.put(ctx, *existing); err != nil {
		return nil, err
	}

	logger.Info("[Persona][Update] Updated persona", "persona_id", personaID)
	return existing, nil
}

func (s *Store) put(ctx context.Context, p common.Persona) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal persona: %w", err)
	}

	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, personaKey(p.PersonaID), payload, 0)
	pipe.SAdd(ctx, personaIndexKey, p.PersonaID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store persona %s: %w", p.PersonaID, err)
	}
	return nil
}

// Get loads a persona by ID. A missing persona is an error: downstream
// analysis cannot proceed without one.
func (s *Store) Get(ctx context.Context, personaID string) (*common.Persona, error) {
	if personaID == "" {
		return nil, errors.New("personaId is required")
	}

	payload, err := s.rdb.Get(ctx, personaKey(personaID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, personaID)
		}
		return nil, fmt.Errorf("failed to load persona %s: %w", personaID, err)
	}

	var p common.Persona
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("failed to decode persona %s: %w", personaID, err)
	}

	return &p, nil
}

func (s *Store) Delete(ctx context.Context, personaID string) error {
	if _, err := s.Get(ctx, personaID); err != nil {
		return err
	}

	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, personaKey(personaID))
	pipe.SRem(ctx, personaIndexKey, personaID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete persona %s: %w", personaID, err)
	}

	logger.Info("[Persona][Delete] Deleted persona", "persona_id", personaID)
	return nil
}

// List returns all personas, optionally filtered by brand or client.
func (s *Store) List(ctx context.Context, brandID, clientID string) ([]common.Persona, error) {
	ids, err := s.rdb.SMembers(ctx, personaIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list personas: %w", err)
	}

	personas := make([]common.Persona, 0, len(ids))
	for _, id := range ids {
		p, err := s.Get(ctx, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		if brandID != "" && p.BrandID != brandID {
			continue
		}
		if clientID != "" && p.ClientID != clientID {
			continue
		}
		personas = append(personas, *p)
	}

	return personas, nil
}
