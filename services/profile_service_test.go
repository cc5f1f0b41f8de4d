package services

import (
	"context"
	"testing"
	"time"

	"github.com/honeyhomes/honey-homes-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string {
	return &s
}

func TestProfileGet_CreatesLazily(t *testing.T) {
	db := setupTestDB(t)

	profile, err := NewProfileService(db).Get(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", profile.ID)
	assert.Nil(t, profile.FullName)

	var count int64
	db.Model(&models.Profile{}).Count(&count)
	assert.Equal(t, int64(1), count)

	_, err = NewProfileService(db).Get(context.Background(), "user-1")
	require.NoError(t, err)
	db.Model(&models.Profile{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestProfileUpdate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewProfileService(db)
	ctx := context.Background()

	profile, err := svc.Update(ctx, "user-1", ProfileUpdate{
		FullName: strPtr("Kiran Das"),
		Phone:    strPtr("9123456780"),
		City:     strPtr("Pune"),
	})
	require.NoError(t, err)
	require.NotNil(t, profile.FullName)
	assert.Equal(t, "Kiran Das", *profile.FullName)
	require.NotNil(t, profile.City)
	assert.Equal(t, "Pune", *profile.City)
	assert.Nil(t, profile.Address)

	// Nil leaves a field alone, empty string clears it
	profile, err = svc.Update(ctx, "user-1", ProfileUpdate{City: strPtr(""), Address: strPtr("5 Lake View")})
	require.NoError(t, err)
	assert.Nil(t, profile.City)
	require.NotNil(t, profile.FullName)
	assert.Equal(t, "Kiran Das", *profile.FullName)
	require.NotNil(t, profile.Address)
	assert.Equal(t, "5 Lake View", *profile.Address)
}

func TestProfileUpdate_PhoneValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewProfileService(db)
	ctx := context.Background()

	_, err := svc.Update(ctx, "user-1", ProfileUpdate{Phone: strPtr("12345")})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "phone", verr.Field)

	// An empty phone is allowed and clears the field
	profile, err := svc.Update(ctx, "user-1", ProfileUpdate{Phone: strPtr("")})
	require.NoError(t, err)
	assert.Nil(t, profile.Phone)
}

func TestProfileUpdate_NotifiesSubscribers(t *testing.T) {
	db := setupTestDB(t)
	hub := NewRealtimeHub()
	SetRealtimeHub(hub)
	defer SetRealtimeHub(NewRealtimeHub())

	recorder := NewRecordingEventPublisher()
	recorder.SetAsMockForTesting()
	defer SetEventPublisher(nil)

	mine := hub.Subscribe("user-1")
	other := hub.Subscribe("user-2")
	defer hub.Unsubscribe(mine)
	defer hub.Unsubscribe(other)

	_, err := NewProfileService(db).Update(context.Background(), "user-1", ProfileUpdate{FullName: strPtr("New Name")})
	require.NoError(t, err)

	select {
	case event := <-mine.Events():
		assert.Equal(t, "UPDATE", event.Type)
		assert.Equal(t, "profiles", event.Table)
		record, ok := event.Record.(models.Profile)
		require.True(t, ok)
		require.NotNil(t, record.FullName)
		assert.Equal(t, "New Name", *record.FullName)
	case <-time.After(time.Second):
		t.Fatal("expected a realtime event for the profile owner")
	}

	select {
	case <-other.Events():
		t.Fatal("other users must not receive the event")
	default:
	}

	assert.Equal(t, []string{SubjectProfileUpdated}, recorder.Subjects())
}
