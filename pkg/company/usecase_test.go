package company

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/hr-crm/pkg/apperr"
	"github.com/artem13815/hr-crm/pkg/choices"
	"github.com/artem13815/hr-crm/pkg/filter"
	"github.com/artem13815/hr-crm/pkg/validate"
)

type memRepo struct {
	items map[uuid.UUID]Company
	lastQ *filter.Query
}

func (r *memRepo) Create(_ context.Context, c Company) error {
	r.items[c.ID] = c
	return nil
}

func (r *memRepo) Get(_ context.Context, id uuid.UUID) (Company, error) {
	c, ok := r.items[id]
	if !ok {
		return Company{}, ErrNotFound
	}
	return c, nil
}

func (r *memRepo) List(_ context.Context, q *filter.Query) ([]Company, error) {
	r.lastQ = q
	var out []Company
	for _, c := range r.items {
		out = append(out, c)
	}
	return out, nil
}

func (r *memRepo) Update(_ context.Context, c Company) error {
	if _, ok := r.items[c.ID]; !ok {
		return ErrNotFound
	}
	r.items[c.ID] = c
	return nil
}

func (r *memRepo) SetLogo(_ context.Context, id uuid.UUID, logo string) error {
	c := r.items[id]
	c.Logo = logo
	r.items[id] = c
	return nil
}

func (r *memRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.items[id]; !ok {
		return ErrNotFound
	}
	delete(r.items, id)
	return nil
}

type memStore struct{ saved map[string][]byte }

func (m *memStore) Save(_ context.Context, key, _ string, data []byte) (string, error) {
	m.saved[key] = data
	return "/media/" + key, nil
}

func (m *memStore) Delete(_ context.Context, key string) error {
	delete(m.saved, key)
	return nil
}

func newTestService() (*service, *memRepo, *memStore) {
	repo := &memRepo{items: map[uuid.UUID]Company{}}
	store := &memStore{saved: map[string][]byte{}}
	svc := NewService(repo, store, validate.New(choices.Default(), 14, 100), nil).(*service)
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC) }
	return svc, repo, store
}

func validFields() Fields {
	return Fields{Title: "  Рога и копыта ", Website: "https://roga.example.com", Email: "HR@Roga.Example.com"}
}

func TestCreateNormalizesAndStores(t *testing.T) {
	svc, repo, _ := newTestService()

	c, err := svc.Create(context.Background(), validFields())
	require.NoError(t, err)
	assert.Equal(t, "Рога и копыта", c.Title)
	assert.Equal(t, "hr@roga.example.com", c.Email)
	assert.Contains(t, repo.items, c.ID)
}

func TestCreateValidation(t *testing.T) {
	svc, _, _ := newTestService()
	cases := []struct {
		name  string
		mut   func(*Fields)
		field string
	}{
		{"missing title", func(f *Fields) { f.Title = "" }, "company_title"},
		{"bad website", func(f *Fields) { f.Website = "not a url" }, "website"},
		{"bad phone", func(f *Fields) { f.Phone = "12-34" }, "phone_number"},
		{"long address", func(f *Fields) { f.Address = strings.Repeat("a", 101) }, "company_address"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := validFields()
			tc.mut(&f)
			_, err := svc.Create(context.Background(), f)
			require.Error(t, err)
			assert.Equal(t, tc.field, apperr.As(err).Field)
		})
	}
}

func TestReplaceAndPatch(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	f := validFields()
	f.About = "Производство"
	c, err := svc.Create(ctx, f)
	require.NoError(t, err)

	// PUT drops fields that were not sent
	replaced, err := svc.Replace(ctx, c.ID, Fields{Title: "Новое имя", Website: "https://new.example.com"})
	require.NoError(t, err)
	assert.Equal(t, "", replaced.About)
	assert.Equal(t, "", replaced.Email)

	// PATCH keeps them
	var p Patch
	p.About.Set, p.About.Value = true, "Логистика"
	patched, err := svc.Update(ctx, c.ID, p)
	require.NoError(t, err)
	assert.Equal(t, "Новое имя", patched.Title)
	assert.Equal(t, "Логистика", patched.About)

	p = Patch{}
	p.Title.Set, p.Title.Null = true, true
	_, err = svc.Update(ctx, c.ID, p)
	require.Error(t, err)
	assert.Equal(t, "company_title", apperr.As(err).Field)
}

func TestMissingCompanyIsNotFound(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.Get(context.Background(), uuid.New())
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	err = svc.Delete(context.Background(), uuid.New())
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestUploadLogo(t *testing.T) {
	svc, repo, store := newTestService()
	ctx := context.Background()
	c, err := svc.Create(ctx, validFields())
	require.NoError(t, err)

	png := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...)
	updated, err := svc.UploadLogo(ctx, c.ID, "logo.png", png)
	require.NoError(t, err)

	key := "images/company_logos/" + c.ID.String() + "/20240501_103000__logo.png"
	assert.Contains(t, store.saved, key)
	assert.Equal(t, "/media/"+key, updated.Logo)
	assert.Equal(t, "/media/"+key, repo.items[c.ID].Logo)

	_, err = svc.UploadLogo(ctx, c.ID, "logo.txt", []byte("just text"))
	require.Error(t, err)
	assert.Equal(t, "logo", apperr.As(err).Field)
}

func TestListRejectsUnknownOrdering(t *testing.T) {
	svc, repo, _ := newTestService()
	_, err := svc.List(context.Background(), url.Values{"ordering": {"website"}})
	require.Error(t, err)

	_, err = svc.List(context.Background(), url.Values{"ordering": {"-company_address"}})
	require.NoError(t, err)
	sql, _ := repo.lastQ.SQL("SELECT 1")
	assert.Contains(t, sql, "ORDER BY c.company_address DESC, c.seq ASC")
}
