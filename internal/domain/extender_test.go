package domain

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deltadevsde/shard/internal/adapter"
	m "github.com/deltadevsde/shard/internal/model"
)

func projectConfig(dir string) Config {
	return Config{
		ProjectDir:       m.Path(dir),
		TxFile:           "src/tx.rs",
		StateFile:        "src/state.rs",
		UnionName:        "TransactionType",
		Placeholder:      "Noop",
		DefaultFieldType: "String",
		VerifyFn:         "verify",
		ValidateFn:       "validate_tx",
		ProcessFn:        "process_tx",
	}
}

// setupProject copies the scaffolded example into a temp dir so the
// extender can rewrite it.
func setupProject(t *testing.T, example string) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src"), 0o755))

	for _, name := range []string{"tx.rs", "state.rs"} {
		src := filepath.Join("..", "..", "examples", example, "src", name)

		content, err := os.ReadFile(src)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "src", name), content, 0o644))
	}

	return dir
}

func newTestExtender(dir string) Extender {
	return NewExtender(adapter.NewLocalSourceFSAdapter(), adapter.NewLocalSchemaFileAdapter(), projectConfig(dir))
}

func readProjectFile(t *testing.T, dir, rel string) string {
	t.Helper()

	content, err := os.ReadFile(filepath.Join(dir, rel))
	require.NoError(t, err)

	return string(content)
}

func TestCreateTransaction_FirstTransactionReplacesPlaceholder(t *testing.T) {
	dir := setupProject(t, "initial")
	ext := newTestExtender(dir)

	result, err := ext.CreateTransaction(context.Background(), m.TransactionSpec{
		Name:   "CreateGame",
		Fields: []m.FieldSpec{{Name: "game_id", Type: "String"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "CreateGame", result.Variant.Name)
	assert.Empty(t, result.Warnings)
	require.Len(t, result.FilesWritten, 2)

	tx := readProjectFile(t, dir, "src/tx.rs")
	state := readProjectFile(t, dir, "src/state.rs")

	assert.NotContains(t, tx, "Noop")
	assert.NotContains(t, state, "Noop")

	assert.Contains(t, tx, "CreateGame { game_id: String },")
	assert.Contains(t, tx, "TransactionType::CreateGame { game_id } => Ok(()),")

	assert.Contains(t, state, "TransactionType::CreateGame { game_id } => Ok(()),")
	assert.Equal(t, 2, strings.Count(state, "TransactionType::CreateGame { game_id } => Ok(()),"),
		"both validate_tx and process_tx need the new arm")

	// Opaque code survives the rewrite.
	assert.Contains(t, tx, "bincode::serialize(&self.tx_type)")
	assert.Contains(t, state, "pub accounts: HashMap<String, u64>,")
}

func TestCreateTransaction_SecondTransactionInsertsArmFirst(t *testing.T) {
	dir := setupProject(t, "initial")
	ext := newTestExtender(dir)

	_, err := ext.CreateTransaction(context.Background(), m.TransactionSpec{
		Name:   "CreateGame",
		Fields: []m.FieldSpec{{Name: "game_id", Type: "String"}},
	})
	require.NoError(t, err)

	_, err = ext.CreateTransaction(context.Background(), m.TransactionSpec{
		Name:   "JoinGame",
		Fields: []m.FieldSpec{{Name: "game_id", Type: "String"}},
	})
	require.NoError(t, err)

	tx := readProjectFile(t, dir, "src/tx.rs")
	state := readProjectFile(t, dir, "src/state.rs")

	// The union keeps declaration order: oldest variant first.
	assert.Less(t, strings.Index(tx, "CreateGame { game_id: String },"),
		strings.Index(tx, "JoinGame { game_id: String },"))

	// Every dispatch match gets the newest arm at the top.
	for _, content := range []string{tx, state} {
		joinArm := strings.Index(content, "TransactionType::JoinGame { game_id } => Ok(())")
		createArm := strings.Index(content, "TransactionType::CreateGame { game_id } => Ok(())")
		require.GreaterOrEqual(t, joinArm, 0)
		require.GreaterOrEqual(t, createArm, 0)
		assert.Less(t, joinArm, createArm, "newest arm must come first")
	}
}

func TestCreateTransaction_DuplicateLeavesFilesUntouched(t *testing.T) {
	dir := setupProject(t, "initial")
	ext := newTestExtender(dir)

	_, err := ext.CreateTransaction(context.Background(), m.TransactionSpec{Name: "CreateGame"})
	require.NoError(t, err)

	txBefore := readProjectFile(t, dir, "src/tx.rs")
	stateBefore := readProjectFile(t, dir, "src/state.rs")

	_, err = ext.CreateTransaction(context.Background(), m.TransactionSpec{Name: "CreateGame"})
	require.ErrorIs(t, err, ErrDuplicateVariant)

	assert.Equal(t, txBefore, readProjectFile(t, dir, "src/tx.rs"))
	assert.Equal(t, stateBefore, readProjectFile(t, dir, "src/state.rs"))
}

func TestCreateTransaction_InvalidName(t *testing.T) {
	dir := setupProject(t, "initial")
	ext := newTestExtender(dir)

	_, err := ext.CreateTransaction(context.Background(), m.TransactionSpec{Name: "Create Game"})
	require.ErrorIs(t, err, ErrInvalidName)
}

func TestCreateTransaction_MissingProjectDir(t *testing.T) {
	ext := newTestExtender(filepath.Join(t.TempDir(), "missing"))

	_, err := ext.CreateTransaction(context.Background(), m.TransactionSpec{Name: "CreateGame"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "project directory not found")
}

func TestCreateTransaction_UnitTransaction(t *testing.T) {
	dir := setupProject(t, "initial")
	ext := newTestExtender(dir)

	_, err := ext.CreateTransaction(context.Background(), m.TransactionSpec{Name: "Ping"})
	require.NoError(t, err)

	tx := readProjectFile(t, dir, "src/tx.rs")
	assert.Contains(t, tx, "    Ping,\n")
	assert.Contains(t, tx, "TransactionType::Ping => Ok(()),")
}

func TestCreateTransaction_UnparsableTypeFallsBack(t *testing.T) {
	dir := setupProject(t, "initial")
	ext := newTestExtender(dir)

	result, err := ext.CreateTransaction(context.Background(), m.TransactionSpec{
		Name:   "Blob",
		Fields: []m.FieldSpec{{Name: "data", Type: "Vec<"}},
	})
	require.NoError(t, err)

	require.Len(t, result.Warnings, 1)
	assert.Equal(t, m.WarnTypeFallback, result.Warnings[0].Code)

	tx := readProjectFile(t, dir, "src/tx.rs")
	assert.Contains(t, tx, "Blob { data: String },")
}

func TestCreateTransaction_ExtendedProjectKeepsCustomLogic(t *testing.T) {
	dir := setupProject(t, "tictactoe")
	ext := newTestExtender(dir)

	_, err := ext.CreateTransaction(context.Background(), m.TransactionSpec{
		Name:   "Forfeit",
		Fields: []m.FieldSpec{{Name: "game_id", Type: "String"}},
	})
	require.NoError(t, err)

	state := readProjectFile(t, dir, "src/state.rs")

	// The hand-written arm bodies survive untouched.
	assert.Contains(t, state, `return Err(anyhow!("it is not your turn!"));`)
	assert.Contains(t, state, "board.state[position as usize] = if board.turn % 2 == 0 { 1 } else { 2 };")

	// New arm leads every dispatch match.
	forfeit := strings.Index(state, "TransactionType::Forfeit { game_id } => Ok(())")
	create := strings.Index(state, "TransactionType::CreateGame { game_id } => {")
	require.GreaterOrEqual(t, forfeit, 0)
	assert.Less(t, forfeit, create)
}

func TestCreateTransaction_CancelledContext(t *testing.T) {
	dir := setupProject(t, "initial")
	ext := newTestExtender(dir)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ext.CreateTransaction(ctx, m.TransactionSpec{Name: "CreateGame"})
	require.ErrorIs(t, err, context.Canceled)
}

func TestInspect(t *testing.T) {
	dir := setupProject(t, "tictactoe")
	ext := newTestExtender(dir)

	variants, err := ext.Inspect(context.Background())
	require.NoError(t, err)

	require.Len(t, variants, 3)
	assert.Equal(t, "CreateGame", variants[0].Name)
	assert.Equal(t, "JoinGame", variants[1].Name)
	assert.Equal(t, "Move", variants[2].Name)

	require.Len(t, variants[2].Fields, 2)
	assert.Equal(t, "position", variants[2].Fields[1].Name)
	assert.Equal(t, "u8", variants[2].Fields[1].Type)
}

func TestInspect_MissingEnum(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "tx.rs"), []byte("pub struct Nothing;\n"), 0o644))

	_, err := newTestExtender(dir).Inspect(context.Background())
	require.ErrorIs(t, err, ErrSchemaNotFound)
}

func TestCreateTransaction_RejectsNonDispatchShape(t *testing.T) {
	dir := setupProject(t, "initial")

	// Break the shape: two top-level matches in validate_tx.
	statePath := filepath.Join(dir, "src", "state.rs")
	content := readProjectFile(t, dir, "src/state.rs")
	broken := strings.Replace(content,
		"match tx.tx_type {\n            TransactionType::Noop => Ok(()),\n        }\n    }\n\n    /// Processes",
		"match tx.tx_type {\n            TransactionType::Noop => Ok(()),\n        };\n        match tx.tx_type {\n            TransactionType::Noop => Ok(()),\n        }\n    }\n\n    /// Processes",
		1)
	require.NotEqual(t, content, broken)
	require.NoError(t, os.WriteFile(statePath, []byte(broken), 0o644))

	txBefore := readProjectFile(t, dir, "src/tx.rs")

	_, err := newTestExtender(dir).CreateTransaction(context.Background(), m.TransactionSpec{Name: "CreateGame"})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrSchemaNotFound))

	// Nothing was rewritten, tx.rs included.
	assert.Equal(t, txBefore, readProjectFile(t, dir, "src/tx.rs"))
}
