package strategy

import (
	"testing"
	"time"
)

func TestBeforeSaveMaintainsNameLower(t *testing.T) {
	s := &Strategy{Name: "MoMentum ALPHA"}
	if err := s.BeforeSave(nil); err != nil {
		t.Fatalf("BeforeSave failed: %v", err)
	}
	if s.NameLower != "momentum alpha" {
		t.Errorf("NameLower = %q, want %q", s.NameLower, "momentum alpha")
	}
}

func TestPublishUnpublishTimestamps(t *testing.T) {
	s := &Strategy{}
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	s.Publish(now)
	if !s.IsPublic || s.PublishedAt == nil || !s.PublishedAt.Equal(now) {
		t.Errorf("Publish: IsPublic=%v PublishedAt=%v", s.IsPublic, s.PublishedAt)
	}

	s.Unpublish()
	if s.IsPublic || s.PublishedAt != nil {
		t.Errorf("Unpublish: IsPublic=%v PublishedAt=%v", s.IsPublic, s.PublishedAt)
	}
}
