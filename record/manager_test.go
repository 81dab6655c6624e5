// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package record_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/chaindb/mmfile"
	"github.com/bitmark-inc/chaindb/record"
)

func openFresh(t *testing.T) *mmfile.File {
	path := filepath.Join(t.TempDir(), "record.dat")
	assert.NoError(t, mmfile.Touch(path))
	return mmfile.Open(path)
}

func TestNewRecordBumpsCount(t *testing.T) {
	f := openFresh(t)
	defer f.Close()

	m, err := record.Create(f, 16)
	assert.NoError(t, err)

	i0, err := m.NewRecord()
	assert.NoError(t, err)
	assert.Equal(t, uint32(0), i0)

	i1, err := m.NewRecord()
	assert.NoError(t, err)
	assert.Equal(t, uint32(1), i1)
	assert.Equal(t, uint32(2), m.Count())
}

func TestReleaseThenNewRecordReusesSlot(t *testing.T) {
	f := openFresh(t)
	defer f.Close()

	m, err := record.Create(f, 16)
	assert.NoError(t, err)

	i0, _ := m.NewRecord()
	i1, _ := m.NewRecord()
	m.Release(i0)

	reused, err := m.NewRecord()
	assert.NoError(t, err)
	assert.Equal(t, i0, reused, "free list must be consumed before growing count")
	assert.Equal(t, uint32(2), m.Count(), "reuse must not bump record_count")

	fresh, err := m.NewRecord()
	assert.NoError(t, err)
	assert.NotEqual(t, i1, fresh)
	assert.Equal(t, uint32(3), m.Count())
}

func TestLiveCountExcludesFreeListedSlots(t *testing.T) {
	f := openFresh(t)
	defer f.Close()

	m, err := record.Create(f, 16)
	assert.NoError(t, err)

	i0, _ := m.NewRecord()
	_, _ = m.NewRecord()
	i2, _ := m.NewRecord()
	assert.Equal(t, uint32(3), m.LiveCount())

	m.Release(i0)
	m.Release(i2)
	assert.Equal(t, uint32(3), m.Count(), "record_count must not shrink on Release")
	assert.Equal(t, uint32(1), m.LiveCount())

	reused, err := m.NewRecord()
	assert.NoError(t, err)
	assert.Equal(t, i2, reused, "free list is LIFO")
	assert.Equal(t, uint32(2), m.LiveCount())
}

func TestSyncPublishesStateAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "record.dat")
	assert.NoError(t, mmfile.Touch(path))

	f := mmfile.Open(path)
	m, err := record.Create(f, 8)
	assert.NoError(t, err)
	idx, _ := m.NewRecord()
	copy(m.Get(idx), []byte("abcdefgh"))
	assert.NoError(t, m.Sync())
	assert.NoError(t, f.Close())

	f2 := mmfile.Open(path)
	defer f2.Close()
	m2, err := record.Start(f2, 8)
	assert.NoError(t, err)
	assert.Equal(t, uint32(1), m2.Count())
	assert.Equal(t, []byte("abcdefgh"), m2.Get(idx))
}
