package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/dmitrijs2005/libris/internal/common"
	"github.com/dmitrijs2005/libris/internal/dbx"
	"github.com/dmitrijs2005/libris/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatIdentifier(t *testing.T) {
	assert.Equal(t, "MEM-000001", FormatIdentifier("MEM", 1))
	assert.Equal(t, "ADM-000042", FormatIdentifier("ADM", 42))
	assert.Equal(t, "LIB-999999", FormatIdentifier("LIB", 999999))
	assert.Equal(t, "MEM-1000000", FormatIdentifier("MEM", 1000000))
}

func TestManagementPrefix(t *testing.T) {
	p, err := ManagementPrefix(models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, "ADM", p)

	p, err = ManagementPrefix(models.RoleLibrarian)
	require.NoError(t, err)
	assert.Equal(t, "LIB", p)

	_, err = ManagementPrefix(models.RoleMember)
	assert.ErrorIs(t, err, common.ErrInvalidRole)
}

func TestNextManagementID_PrefixesCountIndependently(t *testing.T) {
	seq := &fakeSequences{newMemStore()}
	ctx := context.Background()

	ids := []string{}
	for _, r := range []models.Role{models.RoleAdmin, models.RoleLibrarian, models.RoleAdmin, models.RoleLibrarian, models.RoleLibrarian} {
		id, err := NextManagementID(ctx, seq, r)
		require.NoError(t, err)
		ids = append(ids, id)
	}
	assert.Equal(t, []string{"ADM-000001", "LIB-000001", "ADM-000002", "LIB-000002", "LIB-000003"}, ids)

	_, err := NextManagementID(ctx, seq, models.RoleMember)
	assert.ErrorIs(t, err, common.ErrInvalidRole)
}

func TestNextMemberID_ConcurrentAllocationsAreDense(t *testing.T) {
	const n = 50
	db := newTxDB(t)
	rm := &fakeRepoManager{s: newMemStore()}

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		got = map[string]bool{}
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := dbx.WithTx(context.Background(), db, nil, func(ctx context.Context, tx dbx.DBTX) error {
				id, err := NextMemberID(ctx, rm.Sequences(tx))
				if err != nil {
					return err
				}
				mu.Lock()
				defer mu.Unlock()
				if got[id] {
					return errors.New("duplicate " + id)
				}
				got[id] = true
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	require.Len(t, got, n)
	for i := int64(1); i <= n; i++ {
		assert.True(t, got[FormatIdentifier("MEM", i)], "missing %d", i)
	}
}

func TestNextMemberID_WrapsRepositoryError(t *testing.T) {
	s := newMemStore()
	s.errs["sequences.Next"] = errBoom{}
	_, err := NextMemberID(context.Background(), &fakeSequences{s})
	assert.ErrorContains(t, err, "error allocating MEM identifier")
}
