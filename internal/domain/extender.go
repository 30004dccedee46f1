package domain

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/deltadevsde/shard/internal/adapter"
	"github.com/deltadevsde/shard/internal/dialect"
	m "github.com/deltadevsde/shard/internal/model"
)

// Config carries the schema contract the external project initializer set
// up: where the two files live and what the union, placeholder and dispatch
// functions are called.
type Config struct {
	ProjectDir       m.Path
	TxFile           m.Path
	StateFile        m.Path
	UnionName        string
	Placeholder      string
	DefaultFieldType string
	VerifyFn         string
	ValidateFn       string
	ProcessFn        string
}

// Extender coordinates the whole extension of a project: parse both schema
// files, extend the union, synchronize every dispatch site, and commit the
// rewritten files.
type Extender interface {
	// CreateTransaction adds a transaction type to the union and an accept
	// arm to every dispatch function. Nothing is written unless the whole
	// transformation succeeded.
	CreateTransaction(ctx context.Context, spec m.TransactionSpec) (m.ExtensionResult, error)

	// Inspect reports the transaction types currently declared in the
	// schema file.
	Inspect(ctx context.Context) ([]m.VariantInfo, error)
}

type extender struct {
	fs     adapter.SourceFSAdapter
	schema adapter.SchemaFileAdapter
	cfg    Config
}

// NewExtender constructs an Extender backed by the provided filesystem and
// schema adapters.
func NewExtender(fs adapter.SourceFSAdapter, schema adapter.SchemaFileAdapter, cfg Config) Extender {
	return &extender{fs: fs, schema: schema, cfg: cfg}
}

func (e *extender) CreateTransaction(ctx context.Context, spec m.TransactionSpec) (m.ExtensionResult, error) {
	if !ValidIdent(spec.Name) {
		return m.ExtensionResult{}, fmt.Errorf("%q: %w", spec.Name, ErrInvalidName)
	}

	if _, err := e.fs.FileInfo(ctx, e.cfg.ProjectDir); err != nil {
		return m.ExtensionResult{}, fmt.Errorf("project directory not found, make sure you're in the correct directory: %w", err)
	}

	txPath := e.fs.JoinPath(ctx, string(e.cfg.ProjectDir), string(e.cfg.TxFile))
	statePath := e.fs.JoinPath(ctx, string(e.cfg.ProjectDir), string(e.cfg.StateFile))

	txTree, stateTree, err := e.loadTrees(ctx, txPath, statePath)
	if err != nil {
		return m.ExtensionResult{}, err
	}

	enum, err := FindEnum(txTree, e.cfg.UnionName)
	if err != nil {
		return m.ExtensionResult{}, fmt.Errorf("%s: %w", txPath, err)
	}

	if enum.HasVariant(spec.Name) {
		return m.ExtensionResult{}, fmt.Errorf("%s: %w", spec.Name, ErrDuplicateVariant)
	}

	// Locate every dispatch site before touching either tree, so a schema
	// violation can never leave a half-mutated file pair.
	dispatches, err := e.locateDispatches(txTree, stateTree, txPath, statePath)
	if err != nil {
		return m.ExtensionResult{}, err
	}

	variant, warnings := BuildVariant(spec.Name, spec.Fields, e.cfg.DefaultFieldType)

	e.extendUnion(enum, variant)
	e.syncDispatches(dispatches, variant)

	txOut := e.schema.Print(ctx, txTree)
	stateOut := e.schema.Print(ctx, stateTree)

	updates := []adapter.FileUpdate{
		{Path: txPath, Content: []byte(txOut), Perm: 0o644},
		{Path: statePath, Content: []byte(stateOut), Perm: 0o644},
	}

	if err := e.fs.CommitFiles(ctx, updates); err != nil {
		slog.Error("Failed to commit schema files", "tx", txPath, "state", statePath, "error", err)

		return m.ExtensionResult{}, err
	}

	slog.Info("Created transaction type",
		"name", spec.Name,
		"fields", len(variant.Fields),
		"warnings", len(warnings),
	)

	return m.ExtensionResult{
		Variant:      describeVariant(variant),
		Warnings:     warnings,
		FilesWritten: []m.Path{txPath, statePath},
	}, nil
}

func (e *extender) Inspect(ctx context.Context) ([]m.VariantInfo, error) {
	txPath := e.fs.JoinPath(ctx, string(e.cfg.ProjectDir), string(e.cfg.TxFile))

	tree, err := e.loadTree(ctx, txPath)
	if err != nil {
		return nil, err
	}

	enum, err := FindEnum(tree, e.cfg.UnionName)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", txPath, err)
	}

	return DescribeEnum(enum), nil
}

// loadTrees parses both schema files concurrently. Either failure is fatal
// and nothing is retained.
func (e *extender) loadTrees(ctx context.Context, txPath, statePath m.Path) (*dialect.File, *dialect.File, error) {
	var txTree, stateTree *dialect.File

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		tree, err := e.loadTree(groupCtx, txPath)
		txTree = tree

		return err
	})

	group.Go(func() error {
		tree, err := e.loadTree(groupCtx, statePath)
		stateTree = tree

		return err
	})

	if err := group.Wait(); err != nil {
		return nil, nil, err
	}

	return txTree, stateTree, nil
}

func (e *extender) loadTree(ctx context.Context, path m.Path) (*dialect.File, error) {
	content, err := e.fs.ReadFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	tree, err := e.schema.Parse(ctx, path, content)
	if err != nil {
		return nil, err
	}

	return tree, nil
}

func (e *extender) locateDispatches(txTree, stateTree *dialect.File, txPath, statePath m.Path) ([]*dialect.MatchStmt, error) {
	lookups := []struct {
		tree *dialect.File
		fn   string
		path m.Path
	}{
		{txTree, e.cfg.VerifyFn, txPath},
		{stateTree, e.cfg.ValidateFn, statePath},
		{stateTree, e.cfg.ProcessFn, statePath},
	}

	dispatches := make([]*dialect.MatchStmt, 0, len(lookups))

	for _, lookup := range lookups {
		match, err := FindDispatchFn(lookup.tree, lookup.fn, e.cfg.UnionName)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", lookup.path, err)
		}

		dispatches = append(dispatches, match)
	}

	return dispatches, nil
}

// extendUnion appends the new variant, dropping the placeholder first when
// it is the only thing the union contains.
func (e *extender) extendUnion(enum *dialect.EnumDecl, variant dialect.Variant) {
	onlyPlaceholder := true

	for _, v := range enum.Variants {
		if v.Name != e.cfg.Placeholder {
			onlyPlaceholder = false
			break
		}
	}

	if onlyPlaceholder {
		enum.RemoveVariant(e.cfg.Placeholder)
	}

	enum.Variants = append(enum.Variants, variant)
}

// syncDispatches removes placeholder arms and inserts the new arm at index
// 0 of every dispatch site, so the newest transaction type is matched first
// everywhere.
func (e *extender) syncDispatches(dispatches []*dialect.MatchStmt, variant dialect.Variant) {
	arm := BuildArm(e.cfg.UnionName, variant)

	for _, match := range dispatches {
		match.RemoveArms(e.cfg.Placeholder)
		match.InsertArmFront(arm)
	}
}
