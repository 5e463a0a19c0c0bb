// Copyright (c) 2026 Identra. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/identra/internal/platform/sec"
)

/*
TestHashPassword verifies that hashing succeeds and never returns the
plaintext.
*/
func TestHashPassword(t *testing.T) {
	hash, err := sec.HashPassword("StrongP@1")
	require.NoError(t, err)

	assert.NotEmpty(t, hash)
	assert.NotEqual(t, "StrongP@1", hash)
}

/*
TestHashPassword_Salted verifies that hashing the same input twice yields
different hashes.
*/
func TestHashPassword_Salted(t *testing.T) {
	first, err := sec.HashPassword("StrongP@1")
	require.NoError(t, err)

	second, err := sec.HashPassword("StrongP@1")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

/*
TestCheckPasswordHash covers match and mismatch outcomes.
*/
func TestCheckPasswordHash(t *testing.T) {
	hash, err := sec.HashPassword("StrongP@1")
	require.NoError(t, err)

	assert.True(t, sec.CheckPasswordHash("StrongP@1", hash))
	assert.False(t, sec.CheckPasswordHash("WrongP@ss1", hash))
	assert.False(t, sec.CheckPasswordHash("", hash))
	assert.False(t, sec.CheckPasswordHash("StrongP@1", "not-a-bcrypt-hash"))
}
