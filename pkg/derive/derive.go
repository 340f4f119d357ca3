package derive

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/modelviz/modelviz/pkg/errors"
	"github.com/modelviz/modelviz/pkg/graph"
	"github.com/modelviz/modelviz/pkg/tree"
)

// =============================================================================
// Options
// =============================================================================

// Default derivation settings.
const (
	DefaultRootLabel  = "model"
	maxPreviewLength  = 20
	categoryLabelUnit = "items"
)

// Options configures one derivation call.
// The zero value derives with defaults.
type Options struct {
	// RootLabel is the label of the synthetic root node.
	// Defaults to "model".
	RootLabel string

	// CollectionsField is the reserved top-level field whose sub-keys are
	// expanded into category nodes. Defaults to "elements".
	CollectionsField string
}

func (o *Options) setDefaults() {
	if o.RootLabel == "" {
		o.RootLabel = DefaultRootLabel
	}
	if o.CollectionsField == "" {
		o.CollectionsField = graph.DefaultCollectionsField
	}
}

// Validate checks option values that come from flags or config.
func (o Options) Validate() error {
	if o.CollectionsField != "" {
		if err := errors.ValidateFieldName(o.CollectionsField); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Derivation
// =============================================================================

// Derive converts a parsed document into a typed node/edge tree:
// a synthetic root, one field node per top-level key, and one category node
// per sub-key of the reserved collections field. Deeper nesting is not
// expanded.
//
// Field iteration follows the document's own key order, so derivation is
// deterministic: the same document and options always produce the same
// nodes, edges, and ids.
//
// A non-object document (bare scalar or array) derives to a root-only tree,
// not an error.
func Derive(doc Value, opts Options) (*tree.Tree, error) {
	opts.setDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	t := tree.New()

	rootID := nodeID("/")
	fieldCount := 0
	if doc.Kind == KindObject {
		fieldCount = len(doc.Fields)
	}
	err := t.AddNode(tree.Node{
		ID:         rootID,
		Label:      opts.RootLabel,
		Kind:       tree.KindRoot,
		ChildCount: fieldCount,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "add root node")
	}

	if doc.Kind != KindObject {
		return t, nil
	}

	for _, f := range doc.Fields {
		fieldPath := "/" + f.Key
		fid := nodeID(fieldPath)
		err := t.AddNode(tree.Node{
			ID:         fid,
			Label:      fieldLabel(f),
			Kind:       tree.KindField,
			ChildCount: childCount(f.Value),
		})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "field %q", f.Key)
		}
		if err := t.AddEdge(tree.Edge{ID: edgeID(fieldPath), Source: rootID, Target: fid}); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "edge to field %q", f.Key)
		}

		if f.Key != opts.CollectionsField || f.Value.Kind != KindObject {
			continue
		}
		for _, sub := range f.Value.Fields {
			catPath := fieldPath + "/" + sub.Key
			cid := nodeID(catPath)
			err := t.AddNode(tree.Node{
				ID:         cid,
				Label:      categoryLabel(sub),
				Kind:       tree.KindCategory,
				ChildCount: childCount(sub.Value),
			})
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "category %q", sub.Key)
			}
			if err := t.AddEdge(tree.Edge{ID: edgeID(catPath), Source: fid, Target: cid}); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInternal, err, "edge to category %q", sub.Key)
			}
		}
	}

	return t, nil
}

// DeriveJSON parses raw JSON bytes and derives the tree in one step.
func DeriveJSON(data []byte, opts Options) (*tree.Tree, error) {
	doc, err := ParseDocument(data)
	if err != nil {
		return nil, err
	}
	return Derive(doc, opts)
}

// =============================================================================
// Labels and IDs
// =============================================================================

// fieldLabel builds the two-line preview label for a top-level field:
// array values show their length in brackets, object values their key count
// in braces, scalars a truncated string form.
func fieldLabel(f Field) string {
	switch f.Value.Kind {
	case KindArray:
		return fmt.Sprintf("%s\n[%d]", f.Key, len(f.Value.Items))
	case KindObject:
		return fmt.Sprintf("%s\n{%d}", f.Key, len(f.Value.Fields))
	default:
		return f.Key + "\n" + truncate(f.Value.Scalar, maxPreviewLength)
	}
}

// categoryLabel builds the label for a category node under the collections
// field, e.g. "walls\n2 items".
func categoryLabel(f Field) string {
	return fmt.Sprintf("%s\n%d %s", f.Key, childCount(f.Value), categoryLabelUnit)
}

func childCount(v Value) int {
	switch v.Kind {
	case KindArray:
		return len(v.Items)
	case KindObject:
		return len(v.Fields)
	default:
		return 0
	}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// idNamespace anchors name-based UUIDs so that node and edge ids are stable
// for a given document path across calls and processes.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://modelviz.dev/graph"))

func nodeID(path string) string {
	return uuid.NewSHA1(idNamespace, []byte("node:"+path)).String()
}

func edgeID(targetPath string) string {
	return uuid.NewSHA1(idNamespace, []byte("edge:"+targetPath)).String()
}
