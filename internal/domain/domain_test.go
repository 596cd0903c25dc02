package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(fmt.Errorf("get property: %w", ErrNotFound)))
	assert.Equal(t, KindConflict, KindOf(ErrDuplicate))
	assert.Equal(t, KindValidation, KindOf(NewValidationError("bad")))
	assert.Equal(t, KindForbidden, KindOf(fmt.Errorf("wrap: %w", NewForbiddenError("no"))))
	assert.Equal(t, KindUnexpected, KindOf(errors.New("boom")))
}

func TestParseID(t *testing.T) {
	_, err := ParseID("not-an-id")
	require.ErrorIs(t, err, ErrNotFound)

	id, err := ParseID("65a1b2c3d4e5f6a7b8c9d0e1")
	require.NoError(t, err)
	assert.Equal(t, "65a1b2c3d4e5f6a7b8c9d0e1", id.Hex())
}

func TestBaseStamp(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	var p Property
	p.Stamp(now)
	assert.False(t, p.ID.IsZero())
	assert.Equal(t, now, p.CreatedAt)
	assert.Equal(t, now, p.UpdatedAt)

	id := p.ID
	later := now.Add(time.Hour)
	p.Stamp(later)
	assert.Equal(t, id, p.ID)
	assert.Equal(t, now, p.CreatedAt)
	assert.Equal(t, later, p.UpdatedAt)
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, 50, ClampLimit(0, 50))
	assert.Equal(t, 10, ClampLimit(10, 50))
	assert.Equal(t, 100, ClampLimit(500, 100))
}

func TestPropertyPatchApply(t *testing.T) {
	p := Property{Name: "Old", Status: PropertyStatusPending, Amenities: []string{"pool"}}
	name := "New"
	status := PropertyStatusApproved
	PropertyPatch{Name: &name, Status: &status}.Apply(&p)

	assert.Equal(t, "New", p.Name)
	assert.Equal(t, PropertyStatusApproved, p.Status)
	assert.Equal(t, []string{"pool"}, p.Amenities)
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		entity, from, to string
		want             bool
	}{
		{EntityProperty, "pending", "approved", true},
		{EntityProperty, "draft", "approved", false},
		{EntityPayment, "paid", "pending", false},
		{EntityPayment, "pending", "paid", true},
		{EntityMaintenance, "completed", "completed", true},
		{EntityBooking, "cancelled", "confirmed", false},
		{EntityLease, "active", "expired", true},
	}
	for _, tt := range tests {
		t.Run(tt.entity+"_"+tt.from+"_"+tt.to, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.entity, tt.from, tt.to))
		})
	}

	err := CheckTransition(EntityPayment, "paid", "pending")
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
}
