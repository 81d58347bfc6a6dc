package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/workdesk-labs/work-mediator/internal/domain"
)

// GuidelineRepository stores per-department work guidelines and ranks
// them against free-text queries.
type GuidelineRepository interface {
	Add(ctx context.Context, dept domain.DepartmentKey, snippets []string) (int, error)
	Count(ctx context.Context) (int64, error)
	Retrieve(ctx context.Context, dept domain.DepartmentKey, query string, k int) ([]string, error)
}

type guidelineRepository struct {
	client *redis.Client
	prefix string
}

// NewGuidelineRepository builds the Redis-backed store. Keys are
// namespaced under prefix.
func NewGuidelineRepository(client *redis.Client, prefix string) GuidelineRepository {
	if prefix == "" {
		prefix = "mediator"
	}
	return &guidelineRepository{client: client, prefix: prefix}
}

func (r *guidelineRepository) deptsKey() string {
	return r.prefix + ":guidelines:depts"
}

func (r *guidelineRepository) listKey(dept string) string {
	return r.prefix + ":guidelines:" + dept
}

// Add appends non-empty snippets for dept and returns how many were stored.
func (r *guidelineRepository) Add(ctx context.Context, dept domain.DepartmentKey, snippets []string) (int, error) {
	clean := make([]any, 0, len(snippets))
	for _, s := range snippets {
		if s = strings.TrimSpace(s); s != "" {
			clean = append(clean, s)
		}
	}
	if len(clean) == 0 {
		return 0, nil
	}

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SAdd(ctx, r.deptsKey(), string(dept))
		pipe.RPush(ctx, r.listKey(string(dept)), clean...)
		return nil
	})
	if err != nil {
		return 0, domain.Unavailable("add guidelines", err)
	}
	return len(clean), nil
}

// Count returns the total number of stored snippets.
func (r *guidelineRepository) Count(ctx context.Context) (int64, error) {
	depts, err := r.client.SMembers(ctx, r.deptsKey()).Result()
	if err != nil {
		return 0, domain.Unavailable("count guidelines", err)
	}
	var total int64
	for _, dept := range depts {
		n, err := r.client.LLen(ctx, r.listKey(dept)).Result()
		if err != nil {
			return 0, domain.Unavailable("count guidelines", err)
		}
		total += n
	}
	return total, nil
}

// Retrieve returns up to k snippets of dept ranked by relevance to query.
// An empty dept searches every department. An empty result is not an
// error.
func (r *guidelineRepository) Retrieve(ctx context.Context, dept domain.DepartmentKey, query string, k int) ([]string, error) {
	depts := []string{string(dept)}
	if dept == "" {
		all, err := r.client.SMembers(ctx, r.deptsKey()).Result()
		if err != nil {
			return nil, domain.Unavailable("retrieve guidelines", err)
		}
		if len(all) == 0 {
			return nil, nil
		}
		sort.Strings(all)
		depts = all
	}

	pipe := r.client.Pipeline()
	cmds := make([]*redis.StringSliceCmd, len(depts))
	for i, d := range depts {
		cmds[i] = pipe.LRange(ctx, r.listKey(d), 0, -1)
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, domain.Unavailable("retrieve guidelines", err)
	}

	var docs []guidelineDoc
	for i, cmd := range cmds {
		for _, text := range cmd.Val() {
			docs = append(docs, guidelineDoc{dept: depts[i], text: text})
		}
	}
	return rankGuidelines(docs, query, k), nil
}

// SeedGuidelines loads a {"DEPT": ["snippet", ...]} file into an empty
// store. It is a no-op when the store already holds data or the file
// does not exist.
func SeedGuidelines(ctx context.Context, repo GuidelineRepository, path string, logger *zap.Logger) (int, error) {
	existing, err := repo.Count(ctx)
	if err != nil {
		return 0, err
	}
	if existing > 0 {
		logger.Info("guideline store already populated; skipping seed", zap.Int64("snippets", existing))
		return 0, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warn("guideline seed file not found; skipping seed", zap.String("path", path))
			return 0, nil
		}
		return 0, fmt.Errorf("read guideline seed: %w", err)
	}

	var data map[string][]string
	if err := json.Unmarshal(content, &data); err != nil {
		return 0, fmt.Errorf("parse guideline seed %s: %w", path, err)
	}

	depts := make([]string, 0, len(data))
	for dept := range data {
		depts = append(depts, dept)
	}
	sort.Strings(depts)

	var total int
	for _, dept := range depts {
		key, ok := domain.ParseDepartmentKey(dept)
		if !ok {
			logger.Warn("guideline seed has unknown department", zap.String("dept", dept))
			continue
		}
		n, err := repo.Add(ctx, key, data[dept])
		if err != nil {
			return total, err
		}
		total += n
	}
	logger.Info("seeded guideline store", zap.Int("snippets", total))
	return total, nil
}
