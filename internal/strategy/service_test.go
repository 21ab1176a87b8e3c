package strategy

import (
	"context"
	"reflect"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/prathamjain99/Quant/internal/user"
	"github.com/prathamjain99/Quant/pkg/logging"
	"github.com/prathamjain99/Quant/pkg/xerrors"
)

type fakeStore struct {
	items  map[uint64]*Strategy
	nextID uint64
}

func newFakeStore() *fakeStore {
	return &fakeStore{items: make(map[uint64]*Strategy)}
}

func (f *fakeStore) FindByID(_ context.Context, id uint64) (*Strategy, error) {
	st, ok := f.items[id]
	if !ok {
		return nil, xerrors.NotFound("strategy not found")
	}
	cp := *st
	return &cp, nil
}

func (f *fakeStore) ListByOwner(_ context.Context, ownerID uint64) ([]*Strategy, error) {
	var out []*Strategy
	for _, st := range f.items {
		if st.OwnerID == ownerID {
			out = append(out, st)
		}
	}
	sortByUpdatedDesc(out)
	return out, nil
}

func (f *fakeStore) ListAll(_ context.Context) ([]*Strategy, error) {
	var out []*Strategy
	for _, st := range f.items {
		out = append(out, st)
	}
	sortByUpdatedDesc(out)
	return out, nil
}

func (f *fakeStore) ListPublic(_ context.Context) ([]*Strategy, error) {
	var out []*Strategy
	for _, st := range f.items {
		if st.IsPublic {
			out = append(out, st)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.PublishedAt != nil && b.PublishedAt != nil && !a.PublishedAt.Equal(*b.PublishedAt) {
			return a.PublishedAt.After(*b.PublishedAt)
		}
		return a.UpdatedAt.After(b.UpdatedAt)
	})
	return out, nil
}

func (f *fakeStore) SearchByOwner(ctx context.Context, ownerID uint64, term string) ([]*Strategy, error) {
	all, _ := f.ListByOwner(ctx, ownerID)
	return filterByName(all, term), nil
}

func (f *fakeStore) SearchPublic(ctx context.Context, term string) ([]*Strategy, error) {
	all, _ := f.ListPublic(ctx)
	return filterByName(all, term), nil
}

func (f *fakeStore) ExistsByOwnerAndName(_ context.Context, ownerID uint64, name string, excludeID uint64) (bool, error) {
	lower := strings.ToLower(name)
	for _, st := range f.items {
		if st.OwnerID == ownerID && st.NameLower == lower && st.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) Create(_ context.Context, s *Strategy) error {
	f.nextID++
	s.ID = f.nextID
	cp := *s
	f.items[s.ID] = &cp
	return nil
}

func (f *fakeStore) Update(_ context.Context, s *Strategy) error {
	if _, ok := f.items[s.ID]; !ok {
		return xerrors.NotFound("strategy not found")
	}
	cp := *s
	f.items[s.ID] = &cp
	return nil
}

func (f *fakeStore) Delete(_ context.Context, id any) error {
	delete(f.items, id.(uint64))
	return nil
}

func (f *fakeStore) CountByOwner(_ context.Context, ownerID uint64) (int64, int64, error) {
	var total, public int64
	for _, st := range f.items {
		if st.OwnerID == ownerID {
			total++
			if st.IsPublic {
				public++
			}
		}
	}
	return total, public, nil
}

func sortByUpdatedDesc(items []*Strategy) {
	sort.Slice(items, func(i, j int) bool {
		return items[i].UpdatedAt.After(items[j].UpdatedAt)
	})
}

func filterByName(items []*Strategy, term string) []*Strategy {
	lower := strings.ToLower(term)
	var out []*Strategy
	for _, st := range items {
		if strings.Contains(st.NameLower, lower) {
			out = append(out, st)
		}
	}
	return out
}

type recordedEvent struct {
	Username  string
	EventType string
	Message   string
	EntityID  uint64
}

type fakeRecorder struct {
	events []recordedEvent
}

func (f *fakeRecorder) Record(_ context.Context, username, eventType, message, _ string, entityID uint64) {
	f.events = append(f.events, recordedEvent{username, eventType, message, entityID})
}

func (f *fakeRecorder) last() *recordedEvent {
	if len(f.events) == 0 {
		return nil
	}
	return &f.events[len(f.events)-1]
}

func newTestService(store Store, rec ActivityRecorder) *Service {
	svc := NewService(store, rec, nil, 0, logging.NewLogger("test", "strategy"))
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	step := 0
	svc.now = func() time.Time {
		step++
		return base.Add(time.Duration(step) * time.Second)
	}
	return svc
}

var (
	researcher = &user.User{ID: 1, Username: "researcher1", Role: user.RoleResearcher}
	otherRes   = &user.User{ID: 2, Username: "researcher2", Role: user.RoleResearcher}
	pm         = &user.User{ID: 3, Username: "pm1", Role: user.RolePortfolioManager}
	client     = &user.User{ID: 4, Username: "client1", Role: user.RoleClient}
)

func TestCreateAppliesDefaultConfiguration(t *testing.T) {
	svc := newTestService(newFakeStore(), &fakeRecorder{})

	dto, err := svc.Create(context.Background(), researcher, CreateRequest{Name: "Momentum Alpha"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	want := DefaultConfiguration()
	if !reflect.DeepEqual(map[string]any(dto.Configuration), map[string]any(want)) {
		t.Errorf("default configuration mismatch: got %v, want %v", dto.Configuration, want)
	}
	if dto.IsPublic {
		t.Errorf("new strategy must start private")
	}
	if dto.PublishedAt != nil {
		t.Errorf("new strategy must have nil publishedAt")
	}
	if !dto.CreatedAt.Equal(dto.UpdatedAt) {
		t.Errorf("createdAt and updatedAt must match on creation")
	}
}

func TestCreateRejectsNonResearchers(t *testing.T) {
	svc := newTestService(newFakeStore(), &fakeRecorder{})

	for _, viewer := range []*user.User{pm, client} {
		_, err := svc.Create(context.Background(), viewer, CreateRequest{Name: "Nope"})
		if !xerrors.IsType(err, xerrors.ErrPermissionDenied) {
			t.Errorf("role %s: expected PermissionDenied, got %v", viewer.Role, err)
		}
	}
}

func TestCreateNameConflictIsCaseInsensitivePerOwner(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeRecorder{})
	ctx := context.Background()

	if _, err := svc.Create(ctx, researcher, CreateRequest{Name: "Momentum"}); err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	_, err := svc.Create(ctx, researcher, CreateRequest{Name: "MOMENTUM"})
	if !xerrors.IsType(err, xerrors.ErrAlreadyExists) {
		t.Errorf("case-variant duplicate: expected AlreadyExists, got %v", err)
	}

	// 同名策略归属不同研究员时互不冲突。
	if _, err := svc.Create(ctx, otherRes, CreateRequest{Name: "Momentum"}); err != nil {
		t.Errorf("same name under another owner should succeed, got %v", err)
	}
}

func TestUpdateAllowsSelfRename(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeRecorder{})
	ctx := context.Background()

	dto, err := svc.Create(ctx, researcher, CreateRequest{Name: "momentum"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// 仅调整大小写的原地改名不应触发冲突。
	updated, err := svc.Update(ctx, researcher, dto.ID, UpdateRequest{Name: "Momentum"})
	if err != nil {
		t.Fatalf("case-only rename failed: %v", err)
	}
	if updated.Name != "Momentum" {
		t.Errorf("name = %q, want Momentum", updated.Name)
	}
	if !updated.UpdatedAt.After(dto.UpdatedAt) {
		t.Errorf("updatedAt must advance on update")
	}
}

func TestUpdateRenameConflict(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeRecorder{})
	ctx := context.Background()

	if _, err := svc.Create(ctx, researcher, CreateRequest{Name: "Alpha"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	dto, err := svc.Create(ctx, researcher, CreateRequest{Name: "Beta"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	_, err = svc.Update(ctx, researcher, dto.ID, UpdateRequest{Name: "alpha"})
	if !xerrors.IsType(err, xerrors.ErrAlreadyExists) {
		t.Errorf("rename onto sibling: expected AlreadyExists, got %v", err)
	}
}

func TestPublishUnpublishLifecycle(t *testing.T) {
	store := newFakeStore()
	rec := &fakeRecorder{}
	svc := newTestService(store, rec)
	ctx := context.Background()

	dto, err := svc.Create(ctx, researcher, CreateRequest{Name: "Lifecycle"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	published, err := svc.Publish(ctx, researcher, dto.ID)
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if !published.IsPublic || published.PublishedAt == nil {
		t.Fatalf("publish must set isPublic and publishedAt, got %+v", published)
	}

	// 重复发布被拒绝，且不得改写 publishedAt。
	_, err = svc.Publish(ctx, researcher, dto.ID)
	if !xerrors.IsType(err, xerrors.ErrInvalidArg) {
		t.Errorf("double publish: expected InvalidArg, got %v", err)
	}
	after, _ := svc.Get(ctx, researcher, dto.ID)
	if !after.PublishedAt.Equal(*published.PublishedAt) {
		t.Errorf("publishedAt changed by rejected publish")
	}

	unpublished, err := svc.Unpublish(ctx, researcher, dto.ID)
	if err != nil {
		t.Fatalf("unpublish failed: %v", err)
	}
	if unpublished.IsPublic || unpublished.PublishedAt != nil {
		t.Errorf("unpublish must reset isPublic and publishedAt")
	}

	_, err = svc.Unpublish(ctx, researcher, dto.ID)
	if !xerrors.IsType(err, xerrors.ErrInvalidArg) {
		t.Errorf("double unpublish: expected InvalidArg, got %v", err)
	}

	if got := rec.last(); got == nil || got.EventType != EventUnpublished {
		t.Errorf("last event = %+v, want %s", got, EventUnpublished)
	}
}

func TestPublishRequiresOwnership(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeRecorder{})
	ctx := context.Background()

	dto, err := svc.Create(ctx, researcher, CreateRequest{Name: "Guarded"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	for _, viewer := range []*user.User{otherRes, pm, client} {
		if _, err := svc.Publish(ctx, viewer, dto.ID); !xerrors.IsType(err, xerrors.ErrPermissionDenied) {
			t.Errorf("viewer %s: expected PermissionDenied, got %v", viewer.Username, err)
		}
	}
}

func TestListRoleDispatch(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeRecorder{})
	ctx := context.Background()

	if _, err := svc.Create(ctx, researcher, CreateRequest{Name: "Private A"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	b, err := svc.Create(ctx, researcher, CreateRequest{Name: "Public B"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.Create(ctx, otherRes, CreateRequest{Name: "Foreign C"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.Publish(ctx, researcher, b.ID); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	own, err := svc.List(ctx, researcher, "")
	if err != nil {
		t.Fatalf("researcher list failed: %v", err)
	}
	if len(own) != 2 {
		t.Errorf("researcher sees %d strategies, want 2 (own only)", len(own))
	}

	all, err := svc.List(ctx, pm, "")
	if err != nil {
		t.Fatalf("pm list failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("pm sees %d strategies, want 3", len(all))
	}

	visible, err := svc.List(ctx, client, "")
	if err != nil {
		t.Fatalf("client list failed: %v", err)
	}
	if len(visible) != 1 || visible[0].ID != b.ID {
		t.Errorf("client must see only the published strategy, got %+v", visible)
	}

	// 未知角色得到空结果而非错误。
	none, err := svc.List(ctx, &user.User{ID: 9, Role: "AUDITOR"}, "")
	if err != nil || len(none) != 0 {
		t.Errorf("unknown role: got %d items, err %v; want empty, nil", len(none), err)
	}
}

func TestListSearchFiltersByName(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeRecorder{})
	ctx := context.Background()

	if _, err := svc.Create(ctx, researcher, CreateRequest{Name: "Momentum Alpha"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.Create(ctx, researcher, CreateRequest{Name: "Mean Reversion"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	got, err := svc.List(ctx, researcher, "momentum")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Momentum Alpha" {
		t.Errorf("search result = %+v, want only Momentum Alpha", got)
	}

	// 组合经理在全集上过滤。
	pmGot, err := svc.List(ctx, pm, "MEAN")
	if err != nil {
		t.Fatalf("pm search failed: %v", err)
	}
	if len(pmGot) != 1 || pmGot[0].Name != "Mean Reversion" {
		t.Errorf("pm search result = %+v, want only Mean Reversion", pmGot)
	}
}

func TestGetEnforcesVisibility(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeRecorder{})
	ctx := context.Background()

	dto, err := svc.Create(ctx, researcher, CreateRequest{Name: "Hidden"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := svc.Get(ctx, client, dto.ID); !xerrors.IsType(err, xerrors.ErrPermissionDenied) {
		t.Errorf("client on private: expected PermissionDenied, got %v", err)
	}
	if _, err := svc.Get(ctx, pm, dto.ID); err != nil {
		t.Errorf("pm must see private strategy, got %v", err)
	}
	if _, err := svc.Get(ctx, researcher, 999); !xerrors.IsType(err, xerrors.ErrNotFound) {
		t.Errorf("missing id: expected NotFound, got %v", err)
	}
}

func TestStatsAreOwnerScopedForAllRoles(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeRecorder{})
	ctx := context.Background()

	dto, err := svc.Create(ctx, researcher, CreateRequest{Name: "Counted"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.Publish(ctx, researcher, dto.ID); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if _, err := svc.Create(ctx, researcher, CreateRequest{Name: "Counted Two"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	stats, err := svc.Stats(ctx, researcher)
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.TotalStrategies != 2 || stats.PublicStrategies != 1 || stats.PrivateStrategies != 1 {
		t.Errorf("researcher stats = %+v, want 2/1/1", stats)
	}

	// 所有角色都按调用者本人口径统计：组合经理与客户名下没有策略，得到全零。
	for _, viewer := range []*user.User{pm, client} {
		stats, err := svc.Stats(ctx, viewer)
		if err != nil {
			t.Fatalf("%s stats failed: %v", viewer.Username, err)
		}
		if stats.TotalStrategies != 0 || stats.PublicStrategies != 0 || stats.PrivateStrategies != 0 {
			t.Errorf("%s stats = %+v, want all zero", viewer.Username, stats)
		}
	}
}

func TestDeleteRemovesStrategyAndRecordsEvent(t *testing.T) {
	store := newFakeStore()
	rec := &fakeRecorder{}
	svc := newTestService(store, rec)
	ctx := context.Background()

	dto, err := svc.Create(ctx, researcher, CreateRequest{Name: "Doomed"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := svc.Delete(ctx, client, dto.ID); !xerrors.IsType(err, xerrors.ErrPermissionDenied) {
		t.Errorf("client delete: expected PermissionDenied, got %v", err)
	}

	if err := svc.Delete(ctx, researcher, dto.ID); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}
	if _, err := svc.Get(ctx, researcher, dto.ID); !xerrors.IsType(err, xerrors.ErrNotFound) {
		t.Errorf("after delete: expected NotFound, got %v", err)
	}
	if got := rec.last(); got == nil || got.EventType != EventDeleted || got.Message != "Deleted strategy: Doomed" {
		t.Errorf("delete event = %+v", got)
	}
}

func TestDTOCapabilityFlags(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeRecorder{})
	ctx := context.Background()

	dto, err := svc.Create(ctx, researcher, CreateRequest{Name: "Flags"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if !dto.CanEdit || !dto.CanDelete || !dto.CanPublish {
		t.Errorf("owner flags on private = %+v, want all true", dto)
	}

	published, err := svc.Publish(ctx, researcher, dto.ID)
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if published.CanPublish {
		t.Errorf("canPublish must be false once public")
	}

	seen, err := svc.Get(ctx, pm, dto.ID)
	if err != nil {
		t.Fatalf("pm get failed: %v", err)
	}
	if seen.CanEdit || seen.CanDelete || seen.CanPublish {
		t.Errorf("pm flags = %+v, want all false", seen)
	}
}

func TestResearcherPublishClientVisibilityScenario(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeRecorder{})
	ctx := context.Background()

	created, err := svc.Create(ctx, researcher, CreateRequest{Name: "Momentum"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.IsPublic || created.PublishedAt != nil {
		t.Fatalf("fresh strategy must be private with nil publishedAt")
	}

	stats, err := svc.Stats(ctx, researcher)
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.TotalStrategies != 1 || stats.PublicStrategies != 0 || stats.PrivateStrategies != 1 {
		t.Errorf("pre-publish stats = %+v, want 1/0/1", stats)
	}

	if _, err := svc.Publish(ctx, researcher, created.ID); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	stats, err = svc.Stats(ctx, researcher)
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.TotalStrategies != 1 || stats.PublicStrategies != 1 || stats.PrivateStrategies != 0 {
		t.Errorf("post-publish stats = %+v, want 1/1/0", stats)
	}

	clientView, err := svc.List(ctx, client, "")
	if err != nil {
		t.Fatalf("client list failed: %v", err)
	}
	if len(clientView) != 1 || clientView[0].Name != "Momentum" {
		t.Errorf("client view = %+v, want Momentum only", clientView)
	}

	pmView, err := svc.List(ctx, pm, "")
	if err != nil {
		t.Fatalf("pm list failed: %v", err)
	}
	if len(pmView) != 1 || pmView[0].Name != "Momentum" {
		t.Errorf("pm view = %+v, want Momentum", pmView)
	}
}
