package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/rkam/internal/domain"
	"github.com/alexanderramin/rkam/internal/importer"
	"github.com/alexanderramin/rkam/internal/repository"
	"github.com/alexanderramin/rkam/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPlanSchema() *importer.PlanSchema {
	return &importer.PlanSchema{
		Year: 2026,
		BudgetLines: []importer.BudgetLineImport{
			{Code: "5.2.1", Category: "Sarana dan Prasarana", Cap: "100000000"},
			{Code: "5.2.2", Category: "Kegiatan Siswa", Cap: "40000000"},
		},
		Users: []importer.UserImport{
			{Name: "Siti", Role: "pengusul"},
			{Name: "Rina", Role: "bendahara"},
		},
	}
}

func TestImportPlan_CreatesLinesAndUsers(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	svc := NewImportService(testutil.NewTestUoW(database))

	res, err := svc.ImportPlanFromSchema(ctx, validPlanSchema())
	require.NoError(t, err)
	assert.Len(t, res.Lines, 2)
	assert.Len(t, res.Users, 2)

	line, err := repository.NewSQLiteBudgetLineRepo(database).GetByCode(ctx, "5.2.2")
	require.NoError(t, err)
	assert.Equal(t, "40000000", line.Cap.String())
	assert.Equal(t, 2026, line.Year)

	users, err := repository.NewSQLiteUserRepo(database).List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestImportPlan_ValidationErrorsWriteNothing(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	svc := NewImportService(testutil.NewTestUoW(database))

	schema := validPlanSchema()
	schema.BudgetLines[1].Cap = "banyak"
	schema.Users[0].Role = "guru"

	_, err := svc.ImportPlanFromSchema(ctx, schema)
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "2 errors")

	lines, err := repository.NewSQLiteBudgetLineRepo(database).List(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestImportPlan_RollbackOnUserCreateFailure(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()

	// ExecContext calls: #1, #2 = budget lines, #3 = first user.
	failUoW := &testutil.FailOnNthExecUoW{
		DB:     database,
		FailOn: 3,
		Err:    fmt.Errorf("injected user create failure"),
	}
	svc := NewImportService(failUoW)

	_, err := svc.ImportPlanFromSchema(ctx, validPlanSchema())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "injected user create failure")

	lines, err := repository.NewSQLiteBudgetLineRepo(database).List(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, lines, "budget lines must roll back with the failed user")
	users, err := repository.NewSQLiteUserRepo(database).List(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestImportPlan_ExistingCodeRollsBack(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	lineRepo := repository.NewSQLiteBudgetLineRepo(database)
	require.NoError(t, lineRepo.Create(ctx, testutil.NewTestBudgetLine(1_000, testutil.WithCode("5.2.2"))))

	svc := NewImportService(testutil.NewTestUoW(database))
	_, err := svc.ImportPlanFromSchema(ctx, validPlanSchema())
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = lineRepo.GetByCode(ctx, "5.2.1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestImportPlan_FromYAMLFile(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "rkam-2026.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
year: 2026
budget_lines:
  - code: "5.1.1"
    category: Belanja Pegawai
    cap: 75000000
`), 0o644))

	res, err := NewImportService(testutil.NewTestUoW(database)).ImportPlan(ctx, path)
	require.NoError(t, err)
	require.Len(t, res.Lines, 1)
	assert.Equal(t, "5.1.1", res.Lines[0].Code)
}

func TestImportPlan_MissingFile(t *testing.T) {
	database := testutil.NewTestDB(t)
	_, err := NewImportService(testutil.NewTestUoW(database)).ImportPlan(context.Background(), filepath.Join(t.TempDir(), "none.json"))
	assert.ErrorIs(t, err, domain.ErrValidation)
}
