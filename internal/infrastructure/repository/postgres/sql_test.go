package postgres

import (
	"database/sql"
	"testing"
)

func TestChunkEnd(t *testing.T) {
	t.Parallel()

	if got := chunkEnd(0, 10); got != 10 {
		t.Fatalf("chunkEnd(0, 10) = %d, want 10", got)
	}
	if got := chunkEnd(0, 1200); got != upsertChunkSize {
		t.Fatalf("chunkEnd(0, 1200) = %d, want %d", got, upsertChunkSize)
	}
	if got := chunkEnd(1000, 1200); got != 1200 {
		t.Fatalf("chunkEnd(1000, 1200) = %d, want 1200", got)
	}
}

func TestNullConversions(t *testing.T) {
	t.Parallel()

	if got := nullInt64ToPtr(sql.NullInt64{}); got != nil {
		t.Fatalf("nullInt64ToPtr(invalid) = %v, want nil", got)
	}
	if got := nullInt64ToIntPtr(sql.NullInt64{Int64: 7, Valid: true}); got == nil || *got != 7 {
		t.Fatalf("nullInt64ToIntPtr(7) = %v, want 7", got)
	}
	if got := nullTimeToPtr(sql.NullTime{}); got != nil {
		t.Fatalf("nullTimeToPtr(invalid) = %v, want nil", got)
	}
}

func TestNullableString(t *testing.T) {
	t.Parallel()

	if got := nullableString(""); got != nil {
		t.Fatalf("nullableString(\"\") = %v, want nil", got)
	}
	if got := nullableString("x"); got != "x" {
		t.Fatalf("nullableString(x) = %v, want x", got)
	}
}
