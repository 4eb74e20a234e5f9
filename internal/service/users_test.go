package service_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"skate_marketplace/internal/apperr"
	"skate_marketplace/internal/domain"
	"skate_marketplace/internal/dto"
	"skate_marketplace/internal/service"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addressReq(isDefault bool) dto.AddressRequest {
	return dto.AddressRequest{
		FirstName:    "Tony",
		LastName:     "Hawk",
		AddressLine1: "1 Vert Ramp",
		City:         "San Diego",
		State:        "CA",
		PostalCode:   "92101",
		IsDefault:    isDefault,
	}
}

func defaultsByType(addresses []domain.Address) map[domain.AddressType]int {
	counts := map[domain.AddressType]int{}
	for _, a := range addresses {
		if a.IsDefault {
			counts[a.Type]++
		}
	}
	return counts
}

func TestAddressDefaults(t *testing.T) {
	f := newFixture(t)
	caller := f.register(t, "a@x.com")

	address, err := f.users.CreateAddress(f.ctx, caller.UserID, addressReq(false))
	require.NoError(t, err)
	assert.Equal(t, domain.AddressShipping, address.Type)
	assert.Equal(t, "US", address.Country)
	assert.NotEmpty(t, address.ID)
}

func TestAtMostOneDefaultAddressPerType(t *testing.T) {
	f := newFixture(t)
	caller := f.register(t, "a@x.com")

	first, err := f.users.CreateAddress(f.ctx, caller.UserID, addressReq(true))
	require.NoError(t, err)
	second, err := f.users.CreateAddress(f.ctx, caller.UserID, addressReq(true))
	require.NoError(t, err)
	billing := addressReq(true)
	billing.Type = domain.AddressBilling
	_, err = f.users.CreateAddress(f.ctx, caller.UserID, billing)
	require.NoError(t, err)

	list, err := f.users.ListAddresses(f.ctx, caller.UserID)
	require.NoError(t, err)
	assert.Equal(t, map[domain.AddressType]int{domain.AddressShipping: 1, domain.AddressBilling: 1}, defaultsByType(list))
	assert.True(t, list[0].IsDefault, "defaults are listed first")

	_, err = f.users.UpdateAddress(f.ctx, caller.UserID, first.ID, dto.UpdateAddressRequest{IsDefault: lo.ToPtr(true)})
	require.NoError(t, err)
	list, err = f.users.ListAddresses(f.ctx, caller.UserID)
	require.NoError(t, err)
	assert.Equal(t, 1, defaultsByType(list)[domain.AddressShipping])
	current, err := f.users.GetAddress(f.ctx, caller.UserID, first.ID)
	require.NoError(t, err)
	assert.True(t, current.IsDefault)
	previous, err := f.users.GetAddress(f.ctx, caller.UserID, second.ID)
	require.NoError(t, err)
	assert.False(t, previous.IsDefault)

	// Moving the default address to billing leaves shipping without a default
	_, err = f.users.UpdateAddress(f.ctx, caller.UserID, first.ID, dto.UpdateAddressRequest{Type: lo.ToPtr(domain.AddressBilling)})
	require.NoError(t, err)
	list, err = f.users.ListAddresses(f.ctx, caller.UserID)
	require.NoError(t, err)
	assert.Equal(t, map[domain.AddressType]int{domain.AddressBilling: 1}, defaultsByType(list))
}

func TestAddressesAreScopedToOwner(t *testing.T) {
	f := newFixture(t)
	owner := f.register(t, "a@x.com")
	other := f.register(t, "b@x.com")
	address, err := f.users.CreateAddress(f.ctx, owner.UserID, addressReq(false))
	require.NoError(t, err)

	_, err = f.users.UpdateAddress(f.ctx, other.UserID, address.ID, dto.UpdateAddressRequest{City: lo.ToPtr("Nowhere")})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	err = f.users.DeleteAddress(f.ctx, other.UserID, address.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	require.NoError(t, f.users.DeleteAddress(f.ctx, owner.UserID, address.ID))
	list, err := f.users.ListAddresses(f.ctx, owner.UserID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestPreferences(t *testing.T) {
	f := newFixture(t)
	caller := f.register(t, "a@x.com")

	prefs, err := f.users.Preferences(f.ctx, caller.UserID)
	require.NoError(t, err)
	assert.Equal(t, domain.SkillBeginner, prefs.SkillLevel)
	assert.True(t, prefs.EmailNotifications)
	assert.False(t, prefs.SMSNotifications)
	assert.Equal(t, "USD", prefs.Currency)
	assert.Equal(t, "IMPERIAL", prefs.MeasurementUnit)

	saved, err := f.users.UpsertPreferences(f.ctx, caller.UserID, dto.PreferencesRequest{
		SkillLevel:      lo.ToPtr(domain.SkillAdvanced),
		PreferredBrands: &[]string{"Baker", "Baker", "Girl"},
		Currency:        lo.ToPtr("eur"),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)

	again, err := f.users.UpsertPreferences(f.ctx, caller.UserID, dto.PreferencesRequest{SMSNotifications: lo.ToPtr(true)})
	require.NoError(t, err)
	assert.Equal(t, saved.ID, again.ID, "one row per user")
	assert.Equal(t, domain.SkillAdvanced, again.SkillLevel)
	assert.Equal(t, []string{"Baker", "Girl"}, []string(again.PreferredBrands))
	assert.Equal(t, "EUR", again.Currency)
	assert.True(t, again.SMSNotifications)
	assert.True(t, again.PushNotifications)
}

func TestProfile(t *testing.T) {
	f := newFixture(t)
	caller := f.register(t, "a@x.com")

	profile, err := f.users.Profile(f.ctx, caller.UserID)
	require.NoError(t, err)
	require.NotNil(t, profile.Preferences)
	assert.Equal(t, domain.SkillBeginner, profile.Preferences.SkillLevel)
	assert.Empty(t, profile.Addresses)

	updated, err := f.users.UpdateProfile(f.ctx, caller.UserID, dto.UpdateProfileRequest{
		FirstName:   lo.ToPtr("Rodney"),
		DateOfBirth: lo.ToPtr("1966-05-27"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Rodney", lo.FromPtr(updated.FirstName))
	require.NotNil(t, updated.DateOfBirth)
	assert.Equal(t, "1966-05-27", updated.DateOfBirth.Format("2006-01-02"))

	_, err = f.users.UpdateProfile(f.ctx, caller.UserID, dto.UpdateProfileRequest{DateOfBirth: lo.ToPtr("27/05/1966")})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = f.users.UpdateProfile(f.ctx, caller.UserID, dto.UpdateProfileRequest{Password: lo.ToPtr("new-password")})
	require.NoError(t, err)
	_, err = f.auth.Login(f.ctx, dto.LoginRequest{Email: "a@x.com", Password: "new-password"})
	assert.NoError(t, err)
}

func TestAdminUserManagement(t *testing.T) {
	f := newFixture(t)
	f.admin(t)
	shopper := f.register(t, "a@x.com")

	page, err := f.users.List(f.ctx, dto.PageQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)

	updated, err := f.users.Update(f.ctx, shopper.UserID, dto.UpdateUserRequest{Role: lo.ToPtr(domain.RoleAdmin)})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, updated.Role)

	_, err = f.users.Update(f.ctx, shopper.UserID, dto.UpdateUserRequest{Email: lo.ToPtr("ADMIN@skateshop.com")})
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	_, err = f.users.Get(f.ctx, "missing")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestDeleteUser(t *testing.T) {
	f := newFixture(t)
	buyer := f.register(t, "a@x.com")
	browser := f.register(t, "b@x.com")
	c := f.category(t, "Decks")
	deck := f.product(t, c.ID, "Deck", "59.99", 10)
	_, err := f.orders.Create(f.ctx, buyer, cart(line(deck.ID, 1)))
	require.NoError(t, err)
	_, err = f.users.CreateAddress(f.ctx, browser.UserID, addressReq(true))
	require.NoError(t, err)

	err = f.users.Delete(f.ctx, buyer.UserID)
	assert.True(t, apperr.Is(err, apperr.KindConflict), "accounts with orders are kept")
	_, err = f.users.Get(f.ctx, buyer.UserID)
	assert.NoError(t, err)

	require.NoError(t, f.users.Delete(f.ctx, browser.UserID))
	_, err = f.users.Get(f.ctx, browser.UserID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	list, err := f.users.ListAddresses(f.ctx, browser.UserID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestUploadAvatar(t *testing.T) {
	f := newFixture(t)
	caller := f.register(t, "a@x.com")
	png := []byte("\x89PNG fake image")

	_, err := f.users.UploadAvatar(f.ctx, caller.UserID, service.Upload{
		Filename: "avatar.exe", Size: int64(len(png)), Body: bytes.NewReader(png),
	})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = f.users.UploadAvatar(f.ctx, caller.UserID, service.Upload{
		Filename: "huge.png", Size: 6 * 1024 * 1024, Body: bytes.NewReader(png),
	})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	first, err := f.users.UploadAvatar(f.ctx, caller.UserID, service.Upload{
		Filename: "me.PNG", Size: int64(len(png)), Body: bytes.NewReader(png),
	})
	require.NoError(t, err)
	require.NotNil(t, first.Avatar)
	assert.True(t, strings.HasPrefix(*first.Avatar, "/uploads/avatars/"))
	assert.True(t, strings.HasSuffix(*first.Avatar, ".png"))

	firstPath, ok := f.files.PathOf(*first.Avatar)
	require.True(t, ok)
	stored, err := os.ReadFile(filepath.Join(f.files.BasePath(), firstPath))
	require.NoError(t, err)
	assert.Equal(t, png, stored)

	second, err := f.users.UploadAvatar(f.ctx, caller.UserID, service.Upload{
		Filename: "me.webp", Size: int64(len(png)), Body: bytes.NewReader(png),
	})
	require.NoError(t, err)
	assert.NotEqual(t, *first.Avatar, *second.Avatar)
	_, err = os.Stat(filepath.Join(f.files.BasePath(), firstPath))
	assert.True(t, os.IsNotExist(err), "the replaced avatar is removed")
}
