package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/workdesk-labs/work-mediator/internal/domain"
)

func newRedisGuidelines(t *testing.T) (GuidelineRepository, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewGuidelineRepository(client, "test"), srv
}

func seedShipped(t *testing.T, repo GuidelineRepository) int {
	t.Helper()
	n, err := SeedGuidelines(context.Background(), repo, filepath.Join("..", "..", "data", "initial_knowledge.json"), zap.NewNop())
	require.NoError(t, err)
	return n
}

func snippetsOf(t *testing.T, dept domain.DepartmentKey) map[string]bool {
	t.Helper()
	repo := newMemoryGuidelines()
	_, err := SeedGuidelines(context.Background(), repo, filepath.Join("..", "..", "data", "initial_knowledge.json"), zap.NewNop())
	require.NoError(t, err)
	set := make(map[string]bool)
	for _, s := range repo.byDept[dept] {
		set[s] = true
	}
	return set
}

func TestGuidelineStoreEmpty(t *testing.T) {
	repo, _ := newRedisGuidelines(t)
	ctx := context.Background()

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	got, err := repo.Retrieve(ctx, "", "[HR] 연차", 5)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = repo.Retrieve(ctx, domain.DepartmentHR, "[HR] 연차", 5)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGuidelineStoreAddAndCount(t *testing.T) {
	repo, srv := newRedisGuidelines(t)
	ctx := context.Background()

	n, err := repo.Add(ctx, domain.DepartmentHR, []string{"연차 신청은 기간을 확인합니다.", "  ", ""})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = repo.Add(ctx, domain.DepartmentHR, nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = repo.Add(ctx, domain.DepartmentDesign, []string{"배너 규격을 확인합니다.", "로고 원본 파일을 첨부합니다."})
	require.NoError(t, err)

	total, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	members, err := srv.Members("test:guidelines:depts")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"HR", "DESIGN"}, members)
	list, err := srv.List("test:guidelines:HR")
	require.NoError(t, err)
	assert.Equal(t, []string{"연차 신청은 기간을 확인합니다."}, list)
}

func TestGuidelineStoreSeedOnce(t *testing.T) {
	repo, _ := newRedisGuidelines(t)
	first := seedShipped(t, repo)
	assert.Positive(t, first)

	second := seedShipped(t, repo)
	assert.Zero(t, second)

	total, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(first), total)
}

func TestGuidelineStoreRetrieveStaysInDepartment(t *testing.T) {
	repo, _ := newRedisGuidelines(t)
	seedShipped(t, repo)
	ctx := context.Background()

	cases := []struct {
		dept  domain.DepartmentKey
		query string
	}{
		{domain.DepartmentHR, "[HR] 서버가 느려요 " + guidelineSuffix},
		{domain.DepartmentDesign, "[DESIGN] 법인카드 정산 해주세요 " + guidelineSuffix},
		{domain.DepartmentFinance, "[FINANCE] 법인카드 정산 해주세요 " + guidelineSuffix},
	}
	for _, tc := range cases {
		t.Run(string(tc.dept), func(t *testing.T) {
			own := snippetsOf(t, tc.dept)
			got, err := repo.Retrieve(ctx, tc.dept, tc.query, 5)
			require.NoError(t, err)
			require.NotEmpty(t, got)
			assert.LessOrEqual(t, len(got), len(own))
			for _, hit := range got {
				assert.True(t, own[hit], "hit from another department: %s", hit)
			}
		})
	}
}

func TestGuidelineStoreRetrieveAllDepartments(t *testing.T) {
	repo, _ := newRedisGuidelines(t)
	seedShipped(t, repo)

	got, err := repo.Retrieve(context.Background(), "", "법인카드 정산", 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, snippetsOf(t, domain.DepartmentFinance)[got[0]])
}

func TestGuidelineStoreUnavailable(t *testing.T) {
	repo, srv := newRedisGuidelines(t)
	srv.Close()
	ctx := context.Background()

	_, err := repo.Count(ctx)
	assert.ErrorIs(t, err, domain.ErrDownstreamUnavailable)
	_, err = repo.Retrieve(ctx, domain.DepartmentHR, "[HR] 연차", 5)
	assert.ErrorIs(t, err, domain.ErrDownstreamUnavailable)
	_, err = repo.Add(ctx, domain.DepartmentHR, []string{"x"})
	assert.ErrorIs(t, err, domain.ErrDownstreamUnavailable)
}

const guidelineSuffix = "업무 가이드라인 필수 체크리스트 시나리오"
