package auditService

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestService(t *testing.T) *AuditService {
	t.Helper()
	svc, err := NewAuditService(filepath.Join(t.TempDir(), "audit.db"))
	require.NoError(t, err)
	t.Cleanup(func() { svc.Close() })
	return svc
}

func TestRecordAndRecent(t *testing.T) {
	svc := openTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Record(ctx, "package-install", "htop", true, ""))
	require.NoError(t, svc.Record(ctx, "lifecycle", "restart", false, "exit 1"))

	entries, err := svc.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// newest first
	assert.Equal(t, "lifecycle", entries[0].Kind)
	assert.Equal(t, "restart", entries[0].Subject)
	assert.False(t, entries[0].OK)
	assert.Equal(t, "exit 1", entries[0].Detail)

	assert.Equal(t, "package-install", entries[1].Kind)
	assert.True(t, entries[1].OK)
	assert.False(t, entries[1].Timestamp.IsZero())
}

func TestRecentEmptyDatabase(t *testing.T) {
	svc := openTestService(t)

	entries, err := svc.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.NotNil(t, entries, "empty trail must encode as [] not null")
}

func TestRecentLimitAndCap(t *testing.T) {
	svc := openTestService(t)
	ctx := context.Background()

	for i := 0; i < MaxRecent+20; i++ {
		require.NoError(t, svc.Record(ctx, "lifecycle", fmt.Sprintf("action-%d", i), true, ""))
	}

	entries, err := svc.Recent(ctx, 5)
	require.NoError(t, err)
	require.Len(t, entries, 5)
	assert.Equal(t, fmt.Sprintf("action-%d", MaxRecent+19), entries[0].Subject)

	// zero and oversized limits both fall back to the cap
	entries, err = svc.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, entries, MaxRecent)

	entries, err = svc.Recent(ctx, MaxRecent*2)
	require.NoError(t, err)
	assert.Len(t, entries, MaxRecent)
}

func TestReopenKeepsEntries(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "audit.db")
	ctx := context.Background()

	svc, err := NewAuditService(path)
	require.NoError(t, err)
	require.NoError(t, svc.Record(ctx, "package-uninstall", "nano", true, ""))
	require.NoError(t, svc.Close())

	svc, err = NewAuditService(path)
	require.NoError(t, err)
	defer svc.Close()

	entries, err := svc.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "nano", entries[0].Subject)
}
