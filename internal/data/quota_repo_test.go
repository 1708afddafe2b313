package data

import (
	"context"
	"sync"
	"testing"

	"quota-service/internal/biz"
	quotaErrors "quota-service/internal/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var linkScope = biz.NewScopeRef(biz.ScopeKindServiceProjectLink, "l1")

func TestQuotaRepo_GetOrCreateQuota(t *testing.T) {
	repo := NewQuotaRepo(newTestData(t), nil, nil, testLogger)
	ctx := context.Background()
	ref := biz.QuotaRef{Name: biz.QuotaVCPU, Scope: linkScope}

	missing, err := repo.GetQuota(ctx, ref)
	require.NoError(t, err)
	assert.Nil(t, missing)

	first, created, err := repo.GetOrCreateQuota(ctx, ref, -1)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, -1.0, first.Limit)
	assert.Zero(t, first.Usage)

	second, created, err := repo.GetOrCreateQuota(ctx, ref, 10)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, -1.0, second.Limit)

	// 全局配额：作用域为空
	global, created, err := repo.GetOrCreateQuota(ctx, biz.QuotaRef{Name: biz.GlobalResourceCount}, -1)
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, global.IsGlobal())
}

func TestQuotaRepo_UpdateUsage(t *testing.T) {
	repo := NewQuotaRepo(newTestData(t), nil, nil, testLogger)
	ctx := context.Background()
	ref := biz.QuotaRef{Name: biz.QuotaRAM, Scope: linkScope}

	_, _, err := repo.AddQuotaUsage(ctx, ref, 1)
	assert.True(t, quotaErrors.IsQuotaNotFound(err))

	_, _, err = repo.GetOrCreateQuota(ctx, ref, -1)
	require.NoError(t, err)

	before, after, err := repo.AddQuotaUsage(ctx, ref, 512)
	require.NoError(t, err)
	assert.Zero(t, before.Usage)
	assert.Equal(t, 512.0, after.Usage)

	before, after, err = repo.SetQuotaUsage(ctx, ref, 100)
	require.NoError(t, err)
	assert.Equal(t, 512.0, before.Usage)
	assert.Equal(t, 100.0, after.Usage)

	stored, err := repo.GetQuota(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, 100.0, stored.Usage)
}

func TestQuotaRepo_SetLimitListDelete(t *testing.T) {
	repo := NewQuotaRepo(newTestData(t), nil, nil, testLogger)
	ctx := context.Background()

	_, err := repo.SetQuotaLimit(ctx, biz.QuotaRef{Name: "none", Scope: linkScope}, 1)
	assert.True(t, quotaErrors.IsQuotaNotFound(err))

	for _, name := range []string{biz.QuotaVCPU, biz.QuotaRAM, biz.QuotaStorage} {
		_, _, err := repo.GetOrCreateQuota(ctx, biz.QuotaRef{Name: name, Scope: linkScope}, -1)
		require.NoError(t, err)
	}
	q, err := repo.SetQuotaLimit(ctx, biz.QuotaRef{Name: biz.QuotaVCPU, Scope: linkScope}, 16)
	require.NoError(t, err)
	assert.Equal(t, 16.0, q.Limit)

	quotas, err := repo.ListQuotas(ctx, linkScope)
	require.NoError(t, err)
	require.Len(t, quotas, 3)
	assert.Equal(t, biz.QuotaRAM, quotas[0].Name)

	require.NoError(t, repo.DeleteQuota(ctx, biz.QuotaRef{Name: biz.QuotaRAM, Scope: linkScope}))
	quotas, err = repo.ListQuotas(ctx, linkScope)
	require.NoError(t, err)
	assert.Len(t, quotas, 2)
}

func TestQuotaRepo_ConcurrentUpdatesSumSerially(t *testing.T) {
	repo := NewQuotaRepo(newTestData(t), nil, nil, testLogger)
	ctx := context.Background()
	ref := biz.QuotaRef{Name: biz.QuotaResourceCount, Scope: biz.NewScopeRef(biz.ScopeKindProject, "p1")}
	_, _, err := repo.GetOrCreateQuota(ctx, ref, -1)
	require.NoError(t, err)

	const increments, decrements = 30, 12
	var wg sync.WaitGroup
	for i := 0; i < increments+decrements; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			delta := 1.0
			if i < decrements {
				delta = -1
			}
			_, _, err := repo.AddQuotaUsage(ctx, ref, delta)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	q, err := repo.GetQuota(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, float64(increments-decrements), q.Usage)
}

func TestQuotaRepo_UpdateLocksRow(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: mockDB, SkipInitializeWithVersion: true}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	repo := NewQuotaRepo(&Data{db: db}, nil, nil, testLogger)

	rows := sqlmock.NewRows([]string{"quota_id", "name", "scope_kind", "scope_id", "quota_usage", "quota_limit", "threshold"}).
		AddRow("q1", biz.QuotaVCPU, "service_project_link", "l1", 3.0, -1.0, 0.0)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `quota` WHERE name = \\? AND scope_kind = \\? AND scope_id = \\? .*FOR UPDATE").
		WillReturnRows(rows)
	mock.ExpectExec("UPDATE `quota` SET `quota_usage`=quota_usage \\+ \\?").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	before, after, err := repo.AddQuotaUsage(context.Background(), biz.QuotaRef{Name: biz.QuotaVCPU, Scope: linkScope}, 2)
	require.NoError(t, err)
	assert.Equal(t, 3.0, before.Usage)
	assert.Equal(t, 5.0, after.Usage)
	assert.NoError(t, mock.ExpectationsWereMet())
}
