// internal/editors/documents.go
package editors

import (
	"os"

	"admission-portal/internal/engine"
	"admission-portal/internal/models"
)

// Preview is the scoped handle for a locally selected file. It is acquired
// when a slot gets a new file and must be released when the file is
// replaced or the editor is closed.
type Preview struct {
	Slot string
	Path string

	released bool
	release  func()
}

// Release frees the preview. Safe to call more than once.
func (p *Preview) Release() {
	if p == nil || p.released {
		return
	}
	p.released = true
	if p.release != nil {
		p.release()
	}
}

func (p *Preview) Released() bool { return p == nil || p.released }

// DocumentsEditor edits the documents section. Selecting a file for a slot
// acquires a preview for it; re-selecting the slot releases the previous
// preview first.
type DocumentsEditor struct {
	values      models.Documents
	previews    map[string]*Preview
	lastEmitted models.Documents

	// acquirePreview is replaceable in tests. The default verifies the
	// file exists and attaches a no-op release.
	acquirePreview func(slot, path string) (*Preview, error)
}

func NewDocumentsEditor(seed models.Documents) *DocumentsEditor {
	values := models.Documents{}
	for slot, v := range seed {
		values[slot] = v
	}
	e := &DocumentsEditor{
		values:      values,
		previews:    map[string]*Preview{},
		lastEmitted: copyDocuments(values),
	}
	e.acquirePreview = e.filePreview
	return e
}

func (e *DocumentsEditor) filePreview(slot, path string) (*Preview, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	return &Preview{Slot: slot, Path: path}, nil
}

// SelectFile stages a local file for a slot. A selection failure leaves the
// slot untouched and surfaces as a section error on the next Emit.
func (e *DocumentsEditor) SelectFile(slot, path string) error {
	preview, err := e.acquirePreview(slot, path)
	if err != nil {
		return err
	}
	if prev, ok := e.previews[slot]; ok {
		prev.Release()
	}
	e.previews[slot] = preview

	existing := e.values[slot]
	existing.LocalPath = path
	e.values[slot] = existing
	return nil
}

// Preview returns the live preview for a slot, if any.
func (e *DocumentsEditor) Preview(slot string) *Preview {
	return e.previews[slot]
}

// Close releases every outstanding preview. The staged values survive; only
// the preview handles are scoped to the editor.
func (e *DocumentsEditor) Close() {
	for _, p := range e.previews {
		p.Release()
	}
	e.previews = map[string]*Preview{}
}

// Emit returns the update to push to the engine, or ok=false when nothing
// effectively changed since the last emission.
func (e *DocumentsEditor) Emit() (engine.SectionUpdate, bool) {
	if equalDocuments(e.values, e.lastEmitted) {
		return engine.SectionUpdate{}, false
	}
	e.lastEmitted = copyDocuments(e.values)

	return engine.SectionUpdate{
		Patch: engine.SectionPatch{Documents: copyDocuments(e.values)},
	}, true
}

func copyDocuments(in models.Documents) models.Documents {
	out := models.Documents{}
	for slot, v := range in {
		out[slot] = v
	}
	return out
}

func equalDocuments(a, b models.Documents) bool {
	if len(a) != len(b) {
		return false
	}
	for slot, v := range a {
		if b[slot] != v {
			return false
		}
	}
	return true
}
