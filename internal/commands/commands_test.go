package commands_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/ledgerbook/internal/balancesheet"
	"github.com/cleared-dev/ledgerbook/internal/commands"
	"github.com/cleared-dev/ledgerbook/internal/config"
	"github.com/cleared-dev/ledgerbook/internal/ledger"
	"github.com/cleared-dev/ledgerbook/internal/model"
)

const sampleCSV = `date,ac_debited,ac_credited,amount,description
2024-04-01,Cash,Capital,1000,owner investment
2024-04-15,Rent,Cash,200,april rent
`

// project is an initialized ledgerbook directory.
type project struct {
	dir    string
	config string
}

func runLedgerbook(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := commands.NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func newProject(t *testing.T) *project {
	t.Helper()
	for _, key := range []string{config.EnvDBPath, config.EnvOwner, config.EnvOwnerStatus, config.EnvLogLevel} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	dir := t.TempDir()
	_, err := runLedgerbook(t, "init", dir, "--owner", "alice")
	require.NoError(t, err)
	return &project{dir: dir, config: filepath.Join(dir, config.FileName)}
}

func (p *project) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return runLedgerbook(t, append([]string{"--config", p.config}, args...)...)
}

func (p *project) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := p.run(t, args...)
	require.NoError(t, err, "ledgerbook %s", strings.Join(args, " "))
	return out
}

// createFiscalYear returns the id of a new fiscal year as a CLI argument.
func (p *project) createFiscalYear(t *testing.T, name string) string {
	t.Helper()
	var fy model.FiscalYear
	require.NoError(t, json.Unmarshal([]byte(p.mustRun(t, "--json", "fy", "create", name)), &fy))
	return strconv.FormatInt(fy.ID, 10)
}

func (p *project) writeFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(p.dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestInit_CreatesConfigAndDatabase(t *testing.T) {
	p := newProject(t)

	cfg, err := config.Load(p.config)
	require.NoError(t, err)
	assert.Equal(t, "alice", cfg.Owner.ID)

	_, err = os.Stat(filepath.Join(p.dir, "ledgerbook.db"))
	assert.NoError(t, err)

	_, err = runLedgerbook(t, "init", p.dir)
	assert.ErrorContains(t, err, "already exists")
}

func TestFiscalYearCommands(t *testing.T) {
	p := newProject(t)
	id := p.createFiscalYear(t, "FY2024")

	_, err := p.run(t, "fy", "create", "FY2024")
	var dup *model.DuplicateNameError
	assert.ErrorAs(t, err, &dup)

	out := p.mustRun(t, "fy", "rename", id, "Calendar 2024")
	assert.Contains(t, out, `"Calendar 2024"`)

	out = p.mustRun(t, "fy", "toggle", id)
	assert.Equal(t, "fiscal year "+id+" is now closed\n", out)

	out = p.mustRun(t, "fy", "list")
	assert.Contains(t, out, "Calendar 2024")
	assert.Contains(t, out, "closed")

	p.mustRun(t, "fy", "delete", id)
	out = p.mustRun(t, "--json", "fy", "list")
	assert.JSONEq(t, "[]", out)

	_, err = p.run(t, "fy", "delete", "abc")
	assert.ErrorIs(t, err, model.ErrInvalidID)
}

func TestJournalReplaceShowExport(t *testing.T) {
	p := newProject(t)
	id := p.createFiscalYear(t, "FY2024")

	out := p.mustRun(t, "journal", "replace", id, p.writeFile(t, "batch.csv", sampleCSV))
	assert.Equal(t, "replaced journal with 2 entries\n", out)

	out = p.mustRun(t, "journal", "show", id)
	assert.Contains(t, out, "owner investment")
	assert.Contains(t, out, "1200")

	out = p.mustRun(t, "journal", "export", id)
	assert.Equal(t, sampleCSV, out)

	exported := filepath.Join(p.dir, "out.csv")
	p.mustRun(t, "journal", "export", id, "-o", exported)
	data, err := os.ReadFile(exported)
	require.NoError(t, err)
	assert.Equal(t, sampleCSV, string(data))
}

func TestJournalReplaceJSON(t *testing.T) {
	p := newProject(t)
	id := p.createFiscalYear(t, "FY2024")

	batch := `[{"date":"2024-05-01","ac_debited":"Cash","ac_credited":"Sales","amount":99.5,"description":"sale"}]`
	p.mustRun(t, "journal", "replace", id, p.writeFile(t, "batch.json", batch))

	var listing struct {
		Rows []model.Entry `json:"rows"`
	}
	require.NoError(t, json.Unmarshal([]byte(p.mustRun(t, "--json", "journal", "show", id)), &listing))
	require.Len(t, listing.Rows, 1)
	assert.Equal(t, "Sales", listing.Rows[0].Credited)
	assert.Equal(t, "99.5", listing.Rows[0].Amount.String())
}

func TestJournalShowPrintsExactAmounts(t *testing.T) {
	p := newProject(t)
	id := p.createFiscalYear(t, "FY2024")

	batch := "date,ac_debited,ac_credited,amount,description\n2024-04-01,Cash,Sales,10.125,fractional sale\n"
	p.mustRun(t, "journal", "replace", id, p.writeFile(t, "batch.csv", batch))

	out := p.mustRun(t, "journal", "show", id)
	assert.Contains(t, out, "10.125")
	assert.NotContains(t, out, "10.13")

	out = p.mustRun(t, "ledger", "show", id, "Cash")
	assert.Contains(t, out, "balance 10.125 (credit_side)")
}

func TestJournalReplaceInvalidBatchKeepsJournal(t *testing.T) {
	p := newProject(t)
	id := p.createFiscalYear(t, "FY2024")
	p.mustRun(t, "journal", "replace", id, p.writeFile(t, "good.csv", sampleCSV))

	bad := sampleCSV + "2024-13-01,Cash,Sales,5,bad date\n"
	_, err := p.run(t, "journal", "replace", id, p.writeFile(t, "bad.csv", bad))
	var fe *model.FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, 2, fe.Index)
	assert.Equal(t, model.ReasonInvalidDate, fe.Reason)

	assert.Equal(t, sampleCSV, p.mustRun(t, "journal", "export", id))
}

func TestClosedFiscalYearWritesAreSkipped(t *testing.T) {
	p := newProject(t)
	id := p.createFiscalYear(t, "FY2024")
	p.mustRun(t, "journal", "replace", id, p.writeFile(t, "batch.csv", sampleCSV))
	p.mustRun(t, "fy", "toggle", id)

	out := p.mustRun(t, "journal", "replace", id, p.writeFile(t, "empty.csv", "date,ac_debited,ac_credited,amount,description\n"))
	assert.Equal(t, "no changes (fiscal year or account closed)\n", out)

	out = p.mustRun(t, "ledger", "delete", id, "Cash")
	assert.Equal(t, "no changes (fiscal year or account closed)\n", out)

	out = p.mustRun(t, "--json", "bs", "classify", id, "Cash", "--type", "asset", "--subtype", "current")
	assert.JSONEq(t, `{"outcome":"skipped"}`, out)

	assert.Equal(t, sampleCSV, p.mustRun(t, "journal", "export", id))
}

func TestClosedOwnerFromEnvironment(t *testing.T) {
	p := newProject(t)
	id := p.createFiscalYear(t, "FY2024")

	t.Setenv(config.EnvOwnerStatus, "closed")
	_, err := p.run(t, "fy", "create", "FY2025")
	assert.ErrorIs(t, err, model.ErrAccountClosed)

	out := p.mustRun(t, "journal", "replace", id, p.writeFile(t, "batch.csv", sampleCSV))
	assert.Equal(t, "no changes (fiscal year or account closed)\n", out)
}

func TestLedgerCommands(t *testing.T) {
	p := newProject(t)
	id := p.createFiscalYear(t, "FY2024")
	p.mustRun(t, "journal", "replace", id, p.writeFile(t, "batch.csv", sampleCSV))

	out := p.mustRun(t, "ledger", "accounts", id)
	assert.Contains(t, out, "Capital")
	assert.Contains(t, out, "debit_side")

	var al ledger.AccountLedger
	require.NoError(t, json.Unmarshal([]byte(p.mustRun(t, "--json", "ledger", "show", id, "Cash")), &al))
	assert.Len(t, al.DebitSide, 1)
	assert.Len(t, al.CreditSide, 1)
	assert.Equal(t, "800", al.Balance.String())
	assert.Equal(t, model.SideCredit, al.Side)

	out = p.mustRun(t, "ledger", "show", id, "Cash")
	assert.Contains(t, out, "balance 800 (credit_side)")

	_, err := p.run(t, "ledger", "show", id, "Nope")
	assert.ErrorIs(t, err, model.ErrInvalidAccount)

	out = p.mustRun(t, "ledger", "rename", id, "Rent", "Office")
	assert.Equal(t, "renamed \"Rent\" to \"Office\"\n", out)

	var res ledger.RenameResult
	require.NoError(t, json.Unmarshal([]byte(p.mustRun(t, "--json", "ledger", "rename", id, "Office", "Capital")), &res))
	assert.Equal(t, ledger.ActRemove, res.Act)
	assert.Equal(t, model.OutcomeApplied, res.Outcome)

	p.mustRun(t, "ledger", "delete", id, "Capital")
	out = p.mustRun(t, "--json", "journal", "show", id)
	assert.Contains(t, out, `"rows": []`)
}

func TestBalanceSheetCommands(t *testing.T) {
	p := newProject(t)
	id := p.createFiscalYear(t, "FY2024")
	p.mustRun(t, "journal", "replace", id, p.writeFile(t, "batch.csv", sampleCSV))

	out := p.mustRun(t, "bs", "classify", id, "Cash", "--type", "asset", "--subtype", "current")
	assert.Equal(t, "classified \"Cash\" as asset/current/add\n", out)
	out = p.mustRun(t, "bs", "classify", id, "Cash", "--type", "asset", "--subtype", "current")
	assert.Equal(t, "no changes\n", out)
	p.mustRun(t, "bs", "classify", id, "Capital", "--type", "liability", "--subtype", "equity")

	_, err := p.run(t, "bs", "classify", id, "Cash", "--type", "asset", "--subtype", "equity")
	var fe *model.FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "subtype", fe.Field)

	var sheet balancesheet.Sheet
	require.NoError(t, json.Unmarshal([]byte(p.mustRun(t, "--json", "bs", "show", id)), &sheet))
	require.Len(t, sheet.Assets.Current, 1)
	assert.Equal(t, "800", sheet.Assets.Total.String())
	assert.Equal(t, "1000", sheet.Liabilities.EquityTotal.String())

	out = p.mustRun(t, "bs", "show", id)
	assert.Contains(t, out, "Total assets")
	assert.Contains(t, out, "Difference")

	out = p.mustRun(t, "bs", "export", id)
	assert.Equal(t, "account,type,subtype,operation\nCash,asset,current,add\nCapital,liability,equity,add\n", out)

	out = p.mustRun(t, "bs", "classify", id, "Cash", "--type", "nota")
	assert.Equal(t, "removed classification of \"Cash\"\n", out)
	require.NoError(t, json.Unmarshal([]byte(p.mustRun(t, "--json", "bs", "show", id)), &sheet))
	assert.Empty(t, sheet.Assets.Current)
}
