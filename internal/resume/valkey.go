package resume

import (
	"context"
	"fmt"

	"github.com/redis/rueidis"
)

// Compile-time check: ValkeySet implements SeenSet.
var _ SeenSet = (*ValkeySet)(nil)

// ValkeyConfig holds connection parameters for the shared seen set.
type ValkeyConfig struct {
	Addrs     []string
	Password  string
	KeyPrefix string
}

// ValkeySet keeps the seen ids in a Valkey/Redis set so several hosts can
// share one resume state.
type ValkeySet struct {
	client rueidis.Client
	key    string
}

// NewValkeySet connects to Valkey and pings it once.
func NewValkeySet(ctx context.Context, cfg ValkeyConfig) (*ValkeySet, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("addrs is required")
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Password:     cfg.Password,
		DisableCache: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	s := &ValkeySet{client: client, key: cfg.KeyPrefix + "seen"}
	if err := s.client.Do(ctx, s.client.B().Ping().Build()).Error(); err != nil {
		s.client.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return s, nil
}

// Contains checks set membership.
func (s *ValkeySet) Contains(ctx context.Context, id string) (bool, error) {
	cmd := s.client.B().Sismember().Key(s.key).Member(id).Build()
	ok, err := s.client.Do(ctx, cmd).AsBool()
	if err != nil {
		return false, fmt.Errorf("sismember: %w", err)
	}
	return ok, nil
}

// Add inserts id into the set.
func (s *ValkeySet) Add(ctx context.Context, id string) error {
	cmd := s.client.B().Sadd().Key(s.key).Member(id).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("sadd: %w", err)
	}
	return nil
}

// Close shuts down the client.
func (s *ValkeySet) Close() {
	s.client.Close()
}
