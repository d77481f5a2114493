package upload

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/fpang/inventory-drive-bot/internal/session"
)

// fakeStore is an in-memory AssetStore with injectable failures.
type fakeStore struct {
	mu      sync.Mutex
	folders map[string]string // parent/name -> id
	files   []string          // created file names in call order
	nextID  int

	listErr   error
	createErr error
	// failFiles marks file names whose CreateFile call fails.
	failFiles map[string]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		folders:   make(map[string]string),
		failFiles: make(map[string]error),
	}
}

func (f *fakeStore) ListFolder(ctx context.Context, name, parentID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return "", f.listErr
	}
	return f.folders[parentID+"/"+name], nil
}

func (f *fakeStore) CreateFolder(ctx context.Context, name, parentID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return "", f.createErr
	}
	f.nextID++
	id := fmt.Sprintf("folder-%d", f.nextID)
	f.folders[parentID+"/"+name] = id
	return id, nil
}

func (f *fakeStore) CreateFile(ctx context.Context, name, parentID string, data []byte, mimeType string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failFiles[name]; ok {
		return "", err
	}
	f.files = append(f.files, name)
	return "file-" + name, nil
}

// fakeFetcher resolves photo handles to bytes, failing for marked ids.
type fakeFetcher struct {
	failIDs map[string]error
}

func (f *fakeFetcher) FetchPhoto(ctx context.Context, fileID string) ([]byte, error) {
	if err, ok := f.failIDs[fileID]; ok {
		return nil, err
	}
	return []byte("jpeg-bytes-" + fileID), nil
}

// archiveSession builds the reference session: TIENDA 1 / CAJA A, two
// photos of ACRILICO_1 and one of ACRILICO_3.
func archiveSession() *session.Session {
	s := session.New(42)
	s.PointOfSale = "TIENDA 1"
	s.Container = "CAJA_A"
	s.SelectSubItems([]string{"ACRILICO_1", "ACRILICO_3"})
	s.AppendPhoto("ph-1")
	s.AppendPhoto("ph-2")
	s.CurrentIndex = 1
	s.AppendPhoto("ph-3")
	return s
}

func TestPipelineDeterministicNamesAndOrder(t *testing.T) {
	store := newFakeStore()
	pipeline := NewPipeline(store, &fakeFetcher{}, "root", 3)

	report, err := pipeline.Run(context.Background(), archiveSession(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{
		"TIENDA_1_CAJA_A_ACRILICO_1_1.jpg",
		"TIENDA_1_CAJA_A_ACRILICO_1_2.jpg",
		"TIENDA_1_CAJA_A_ACRILICO_3_1.jpg",
	}
	if len(report.Outcomes) != len(want) {
		t.Fatalf("got %d outcomes, want %d", len(report.Outcomes), len(want))
	}
	for i, name := range want {
		if report.Outcomes[i].FileName != name {
			t.Errorf("outcome %d = %q, want %q", i, report.Outcomes[i].FileName, name)
		}
		if report.Outcomes[i].Status != StatusSuccess {
			t.Errorf("outcome %d failed: %s", i, report.Outcomes[i].ErrorDetail)
		}
	}
	if report.Succeeded() != 3 || report.Failed() != 0 {
		t.Errorf("counts = %d/%d", report.Succeeded(), report.Failed())
	}
	if report.PointOfSale != "TIENDA_1" {
		t.Errorf("point of sale = %q", report.PointOfSale)
	}
}

func TestPipelineContinuesPastFailures(t *testing.T) {
	store := newFakeStore()
	store.failFiles["TIENDA_1_CAJA_A_ACRILICO_1_2.jpg"] = errors.New("backend write refused")
	pipeline := NewPipeline(store, &fakeFetcher{}, "root", 1)

	report, err := pipeline.Run(context.Background(), archiveSession(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(report.Outcomes) != 3 {
		t.Fatalf("got %d outcomes, want 3 even with a failure", len(report.Outcomes))
	}
	if report.Succeeded() != 2 || report.Failed() != 1 {
		t.Errorf("counts = %d/%d, want 2/1", report.Succeeded(), report.Failed())
	}

	failed := report.Outcomes[1]
	if failed.Status != StatusFailed {
		t.Errorf("outcome 1 status = %s", failed.Status)
	}
	if failed.ErrorDetail == "" {
		t.Error("failed outcome carries no diagnostic")
	}
}

func TestPipelineFetchFailureRecorded(t *testing.T) {
	store := newFakeStore()
	fetcher := &fakeFetcher{failIDs: map[string]error{"ph-1": errors.New("transport timeout")}}
	pipeline := NewPipeline(store, fetcher, "root", 2)

	report, err := pipeline.Run(context.Background(), archiveSession(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Outcomes[0].Status != StatusFailed {
		t.Errorf("fetch failure not recorded: %+v", report.Outcomes[0])
	}
	if report.Succeeded() != 2 {
		t.Errorf("succeeded = %d, want 2", report.Succeeded())
	}
}

func TestPipelineAuthFailureAborts(t *testing.T) {
	store := newFakeStore()
	store.listErr = &AuthError{Err: errors.New("invalid credentials")}
	pipeline := NewPipeline(store, &fakeFetcher{}, "root", 1)

	report, err := pipeline.Run(context.Background(), archiveSession(), nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsAuthError(err) {
		t.Fatalf("expected AuthError, got %v", err)
	}
	if report != nil {
		t.Errorf("fatal auth must not produce a report")
	}
	if len(store.files) != 0 {
		t.Errorf("transfers attempted after fatal auth: %v", store.files)
	}
}

func TestPipelineFolderFailureFailsWholeBatch(t *testing.T) {
	store := newFakeStore()
	store.listErr = errors.New("backend unavailable")
	pipeline := NewPipeline(store, &fakeFetcher{}, "root", 1)

	report, err := pipeline.Run(context.Background(), archiveSession(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Outcomes) != 3 {
		t.Fatalf("got %d outcomes, want 3", len(report.Outcomes))
	}
	for i, o := range report.Outcomes {
		if o.Status != StatusFailed {
			t.Errorf("outcome %d = %s, want failed", i, o.Status)
		}
	}
}

func TestPipelineEmptySession(t *testing.T) {
	s := session.New(42)
	s.PointOfSale = "TIENDA 1"
	s.Container = "CAJA_A"
	s.SelectSubItems([]string{"ACRILICO_1"})

	pipeline := NewPipeline(newFakeStore(), &fakeFetcher{}, "root", 1)
	report, err := pipeline.Run(context.Background(), s, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Outcomes) != 0 {
		t.Errorf("got %d outcomes for empty session", len(report.Outcomes))
	}
}

func TestFolderResolverReuses(t *testing.T) {
	store := newFakeStore()
	resolver := NewFolderResolver(store)

	first, err := resolver.Resolve(context.Background(), "TIENDA_1", "root")
	if err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	second, err := resolver.Resolve(context.Background(), "TIENDA_1", "root")
	if err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	if first != second {
		t.Errorf("resolver returned different ids: %q vs %q", first, second)
	}
	if store.nextID != 1 {
		t.Errorf("folder created %d times, want 1", store.nextID)
	}
}

func TestFolderResolverFindsExisting(t *testing.T) {
	store := newFakeStore()
	store.folders["root/TIENDA_1"] = "pre-existing"

	resolver := NewFolderResolver(store)
	id, err := resolver.Resolve(context.Background(), "TIENDA_1", "root")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if id != "pre-existing" {
		t.Errorf("id = %q, want pre-existing", id)
	}
	if store.nextID != 0 {
		t.Error("resolver created a duplicate folder")
	}
}

func TestShortDetailTruncatesOnRuneBoundary(t *testing.T) {
	short := errors.New("backend write refused")
	if got := shortDetail(short); got != short.Error() {
		t.Errorf("short message altered: %q", got)
	}

	// Multibyte text aligned so a byte-index cut would land mid-rune.
	long := errors.New("x" + strings.Repeat("ñ", 100))
	got := shortDetail(long)
	if !strings.HasSuffix(got, "...") {
		t.Errorf("long message not truncated: %q", got)
	}
	if !utf8.ValidString(got) {
		t.Errorf("truncation split a rune: %q", got)
	}
	if len(got) > maxDetailBytes+len("...") {
		t.Errorf("detail too long: %d bytes", len(got))
	}
}

func TestFileName(t *testing.T) {
	tests := []struct {
		pos, container, subItem string
		ordinal                 int
		want                    string
	}{
		{"TIENDA 1", "CAJA A", "ACRILICO_1", 1, "TIENDA_1_CAJA_A_ACRILICO_1_1.jpg"},
		{"tienda 1", "CAJA_A", "ACRILICO_3", 2, "TIENDA_1_CAJA_A_ACRILICO_3_2.jpg"},
		{" Plaza del Sol ", "CAJA H", "ACRILICO_9", 5, "PLAZA_DEL_SOL_CAJA_H_ACRILICO_9_5.jpg"},
	}
	for _, tt := range tests {
		if got := FileName(tt.pos, tt.container, tt.subItem, tt.ordinal); got != tt.want {
			t.Errorf("FileName(%q, %q, %q, %d) = %q, want %q",
				tt.pos, tt.container, tt.subItem, tt.ordinal, got, tt.want)
		}
	}
}
