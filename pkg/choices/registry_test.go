package choices

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry(t *testing.T) {
	r := Default()
	for _, name := range required {
		assert.NotEmpty(t, r.Table(name).Entries, name)
	}
	assert.Equal(t, "Полная", r.Table(EmploymentType).Label("PO"))
	assert.Equal(t, "Оффер принят", r.Table(InterviewStatus).Label("OA"))
	assert.Equal(t, []string{"1", "2", "3"}, r.Table(FunnelStatus).Codes())
}

func TestLabelsPreserveOrder(t *testing.T) {
	tbl := Default().Table(ScheduleWork)

	got := tbl.Labels([]string{"U", "P", "XX"})
	assert.Equal(t, []string{"Удаленная работа", "Полный день", ""}, got)
	assert.Nil(t, tbl.Labels(nil))
	assert.Nil(t, tbl.Labels([]string{}))
}

func TestInterviewStagesAreOrdered(t *testing.T) {
	tbl := Default().Table(InterviewStatus)
	assert.Less(t, tbl.Position("PS"), tbl.Position("IHR"))
	assert.Less(t, tbl.Position("IT"), tbl.Position("O"))
	assert.Equal(t, -1, tbl.Position("VIP"))
}

func TestUnknownTableIsEmpty(t *testing.T) {
	tbl := Default().Table("nope")
	assert.False(t, tbl.Has("A"))
	assert.Equal(t, "", tbl.Label("A"))
}

func TestParseRejectsDuplicates(t *testing.T) {
	_, err := Parse([]byte("version: 1\ntables:\n  gender:\n    - {code: M, label: a}\n    - {code: M, label: b}\n"))
	require.Error(t, err)
}

func TestParseRequiresAllTables(t *testing.T) {
	_, err := Parse([]byte("version: 1\ntables:\n  gender:\n    - {code: M, label: a}\n"))
	require.ErrorContains(t, err, "missing")
}

func TestLoadOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "choices.yaml")
	data := []byte(string(embedded) + "\n")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	r, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, r.Version)

	_, err = Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestDedup(t *testing.T) {
	assert.Equal(t, []string{"PO", "CH"}, Dedup([]string{"PO", "CH", "PO"}))
	assert.Nil(t, Dedup(nil))
}
