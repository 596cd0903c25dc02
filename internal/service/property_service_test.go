package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thedon-dev/Final-Year-Project/internal/domain"
	"github.com/thedon-dev/Final-Year-Project/internal/security/auth"
)

func TestPropertyCreateRequiresLandlord(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.properties.Create(ctx, nil, validProperty("x"))
	requireKind(t, domain.KindUnauthenticated, err)

	_, err = env.properties.Create(ctx, session(domain.RoleTenant), validProperty("x"))
	requireKind(t, domain.KindForbidden, err)

	in := validProperty("x")
	in.Address.City = ""
	_, err = env.properties.Create(ctx, session(domain.RoleLandlord), in)
	requireKind(t, domain.KindValidation, err)
	assert.Equal(t, "Missing required fields", err.Error())

	landlord := session(domain.RoleLandlord)
	p := env.createProperty(t, landlord, "Sunrise Court")
	assert.Equal(t, domain.PropertyStatusPending, p.Status)
	assert.Equal(t, oid(t, landlord), p.LandlordID)
}

func TestPropertyListVisibility(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := session(domain.RoleAdmin)
	alice, bob := session(domain.RoleLandlord), session(domain.RoleLandlord)

	a1 := env.createProperty(t, alice, "a1")
	env.createProperty(t, alice, "a2")
	env.createProperty(t, bob, "b1")
	_, err := env.properties.Approve(ctx, admin, a1.ID.Hex())
	require.NoError(t, err)

	for _, caller := range []*auth.Session{nil, session(domain.RoleTenant)} {
		got, err := env.properties.List(ctx, caller, PropertyQuery{})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "a1", got[0].Name)

		got, err = env.properties.List(ctx, caller, PropertyQuery{Status: domain.PropertyStatusPending})
		require.NoError(t, err)
		assert.Empty(t, got)
	}

	got, err := env.properties.List(ctx, alice, PropertyQuery{})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, "a2", got[0].Name)

	got, err = env.properties.List(ctx, admin, PropertyQuery{Status: domain.PropertyStatusPending})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = env.properties.List(ctx, admin, PropertyQuery{LandlordID: bob.UserID})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b1", got[0].Name)

	pending, err := env.properties.ListPending(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, pending, 2)
	_, err = env.properties.ListPending(ctx, alice)
	requireKind(t, domain.KindForbidden, err)
}

func TestPropertyGetUsesLandlordOwnership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := session(domain.RoleLandlord)
	p := env.createProperty(t, owner, "hidden")

	_, err := env.properties.Get(ctx, nil, p.ID.Hex())
	requireKind(t, domain.KindUnauthenticated, err)
	_, err = env.properties.Get(ctx, session(domain.RoleTenant), p.ID.Hex())
	requireKind(t, domain.KindForbidden, err)

	got, err := env.properties.Get(ctx, owner, p.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "hidden", got.Name)

	_, err = env.properties.Get(ctx, owner, "not-an-id")
	requireKind(t, domain.KindNotFound, err)
	assert.Equal(t, "Property not found", err.Error())
}

func TestPropertyUpdateAuthorization(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner, other := session(domain.RoleLandlord), session(domain.RoleLandlord)
	p := env.createProperty(t, owner, "Old name")

	name := "New name"
	_, err := env.properties.Update(ctx, other, p.ID.Hex(), domain.PropertyPatch{Name: &name})
	requireKind(t, domain.KindForbidden, err)
	_, err = env.properties.Update(ctx, session(domain.RoleTenant), p.ID.Hex(), domain.PropertyPatch{Name: &name})
	requireKind(t, domain.KindForbidden, err)

	approved := domain.PropertyStatusApproved
	_, err = env.properties.Update(ctx, owner, p.ID.Hex(), domain.PropertyPatch{Status: &approved})
	requireKind(t, domain.KindForbidden, err)

	got, err := env.properties.Update(ctx, owner, p.ID.Hex(), domain.PropertyPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "New name", got.Name)
	assert.Equal(t, p.LandlordID, got.LandlordID)

	got, err = env.properties.Update(ctx, session(domain.RoleAdmin), p.ID.Hex(), domain.PropertyPatch{Status: &approved})
	require.NoError(t, err)
	assert.Equal(t, domain.PropertyStatusApproved, got.Status)

	_, err = env.properties.Update(ctx, owner, "65a1b2c3d4e5f6a7b8c9d0e1", domain.PropertyPatch{Name: &name})
	requireKind(t, domain.KindNotFound, err)
}

func TestApproveStampsAndNotifies(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner, admin := session(domain.RoleLandlord), session(domain.RoleAdmin)
	p := env.createProperty(t, owner, "Palm Villas")

	// warm the detail cache so the approval has to invalidate it
	_, err := env.properties.Get(ctx, owner, p.ID.Hex())
	require.NoError(t, err)

	_, err = env.properties.Approve(ctx, owner, p.ID.Hex())
	requireKind(t, domain.KindForbidden, err)

	got, err := env.properties.Approve(ctx, admin, p.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, domain.PropertyStatusApproved, got.Status)
	require.NotNil(t, got.ApprovedBy)
	assert.Equal(t, oid(t, admin), *got.ApprovedBy)
	assert.NotNil(t, got.ApprovedAt)

	visible, err := env.properties.Get(ctx, session(domain.RoleTenant), p.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, domain.PropertyStatusApproved, visible.Status)

	notes := env.notificationsFor(t, owner)
	require.Len(t, notes, 1)
	assert.Equal(t, "Property approved", notes[0].Title)

	got, err = env.properties.Reject(ctx, admin, p.ID.Hex(), "blurry photos")
	require.NoError(t, err)
	assert.Equal(t, domain.PropertyStatusRejected, got.Status)
	assert.Nil(t, got.ApprovedBy)
	notes = env.notificationsFor(t, owner)
	require.Len(t, notes, 2)
	assert.Contains(t, notes[0].Message, "blurry photos")

	_, err = env.properties.Approve(ctx, admin, "65a1b2c3d4e5f6a7b8c9d0e1")
	requireKind(t, domain.KindNotFound, err)
}

func TestStrictTransitions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner, admin := session(domain.RoleLandlord), session(domain.RoleAdmin)
	p := env.createProperty(t, owner, "Strict")

	draft := domain.PropertyStatusDraft
	_, err := env.properties.Update(ctx, owner, p.ID.Hex(), domain.PropertyPatch{Status: &draft})
	require.NoError(t, err)

	// without the flag any move is accepted, so approve straight from draft works
	_, err = env.properties.Approve(ctx, admin, p.ID.Hex())
	require.NoError(t, err)
	_, err = env.properties.Update(ctx, owner, p.ID.Hex(), domain.PropertyPatch{Status: &draft})
	require.NoError(t, err)

	t.Setenv("FLAG_STRICT_TRANSITIONS", "true")
	_, err = env.properties.Approve(ctx, admin, p.ID.Hex())
	requireKind(t, domain.KindValidation, err)
	assert.Contains(t, err.Error(), "from draft to approved")
}

func TestPaymentAccountAndDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := session(domain.RoleLandlord)
	p := env.createProperty(t, owner, "Bank")

	_, err := env.properties.UpdatePaymentAccount(ctx, owner, p.ID.Hex(), domain.PaymentAccount{AccountNumber: "1"})
	requireKind(t, domain.KindValidation, err)
	assert.Equal(t, "All payment account fields are required", err.Error())

	_, err = env.properties.UpdatePaymentAccount(ctx, session(domain.RoleLandlord), p.ID.Hex(),
		domain.PaymentAccount{AccountNumber: "1", AccountName: "A", BankName: "B"})
	requireKind(t, domain.KindForbidden, err)

	got, err := env.properties.UpdatePaymentAccount(ctx, owner, p.ID.Hex(),
		domain.PaymentAccount{AccountNumber: "0123456789", AccountName: "Ada Obi", BankName: "First Bank"})
	require.NoError(t, err)
	require.NotNil(t, got.PaymentAccount)
	assert.Equal(t, "First Bank", got.PaymentAccount.BankName)

	requireKind(t, domain.KindForbidden, env.properties.Delete(ctx, session(domain.RoleTenant), p.ID.Hex()))
	require.NoError(t, env.properties.Delete(ctx, owner, p.ID.Hex()))
	requireKind(t, domain.KindNotFound, env.properties.Delete(ctx, owner, p.ID.Hex()))

	_, err = env.properties.Get(ctx, owner, p.ID.Hex())
	requireKind(t, domain.KindNotFound, err)
}
