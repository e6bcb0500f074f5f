package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/rpupo63/portfolio/errs"
)

type call struct {
	op    string
	phase string // "begin" or "end"
}

type mutation struct {
	id     string
	fields ProjectFields
	image  *ImageAttachment
}

// fakeGateway is an in-memory catalog that records the order in which
// calls begin and end.
type fakeGateway struct {
	mu        sync.Mutex
	records   []ProjectRecord
	nextID    int
	calls     []call
	mutations []mutation

	createErr error
	updateErr error
	listErr   error
	// block, when set, holds mutations until it is closed.
	block   chan struct{}
	entered chan struct{}
}

func newFakeGateway(records ...ProjectRecord) *fakeGateway {
	return &fakeGateway{records: records, nextID: len(records) + 1}
}

func (f *fakeGateway) record(op, phase string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{op, phase})
}

func (f *fakeGateway) ops() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ops []string
	for _, c := range f.calls {
		ops = append(ops, c.op+":"+c.phase)
	}
	return ops
}

func (f *fakeGateway) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.op == op && c.phase == "begin" {
			n++
		}
	}
	return n
}

func (f *fakeGateway) wait() {
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}
}

func (f *fakeGateway) ListProjects(ctx context.Context) ([]ProjectRecord, error) {
	f.record("list", "begin")
	defer f.record("list", "end")

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]ProjectRecord, len(f.records))
	copy(out, f.records)
	return out, nil
}

func (f *fakeGateway) CreateProject(ctx context.Context, fields ProjectFields, image *ImageAttachment) (ProjectRecord, error) {
	f.record("create", "begin")
	defer f.record("create", "end")
	f.wait()

	f.mu.Lock()
	defer f.mu.Unlock()
	f.mutations = append(f.mutations, mutation{fields: fields, image: image})
	if f.createErr != nil {
		return ProjectRecord{}, f.createErr
	}
	record := ProjectRecord{
		ID:          fmt.Sprint(f.nextID),
		Title:       fields.Title,
		Description: fields.Description,
		Link:        fields.Link,
		GithubURL:   fields.GithubURL,
		TechStack:   fields.TechStack,
		Tags:        fields.Tags,
		Featured:    fields.Featured,
		SortOrder:   fields.SortOrder,
	}
	if image != nil {
		record.ImageURL = "/uploads/" + image.Filename
	}
	f.nextID++
	f.records = append(f.records, record)
	return record, nil
}

func (f *fakeGateway) UpdateProject(ctx context.Context, id string, fields ProjectFields, image *ImageAttachment) (ProjectRecord, error) {
	f.record("update", "begin")
	defer f.record("update", "end")
	f.wait()

	f.mu.Lock()
	defer f.mu.Unlock()
	f.mutations = append(f.mutations, mutation{id: id, fields: fields, image: image})
	if f.updateErr != nil {
		return ProjectRecord{}, f.updateErr
	}
	for i, record := range f.records {
		if record.ID != id {
			continue
		}
		record.Title = fields.Title
		record.Description = fields.Description
		record.Link = fields.Link
		record.GithubURL = fields.GithubURL
		record.TechStack = fields.TechStack
		record.Tags = fields.Tags
		record.Featured = fields.Featured
		record.SortOrder = fields.SortOrder
		if image != nil {
			record.ImageURL = "/uploads/" + image.Filename
		}
		f.records[i] = record
		return record, nil
	}
	return ProjectRecord{}, errs.NewClientNotFoundError("project not found")
}

func (f *fakeGateway) DeleteProject(ctx context.Context, id string) error {
	f.record("delete", "begin")
	defer f.record("delete", "end")

	f.mu.Lock()
	defer f.mu.Unlock()
	for i, record := range f.records {
		if record.ID == id {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return nil
		}
	}
	return errs.NewClientNotFoundError("project not found")
}

func (f *fakeGateway) ValidateCredential(ctx context.Context, token string) (bool, error) {
	f.record("validate", "begin")
	defer f.record("validate", "end")
	return token == "good", nil
}

func (f *fakeGateway) snapshot() []ProjectRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]ProjectRecord, len(f.records))
	copy(out, f.records)
	return out
}
