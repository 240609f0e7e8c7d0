package ruasview

import (
	"context"
	"net/http"

	"github.com/yogaheristya/ruas-console/internal/client"
	"github.com/yogaheristya/ruas-console/internal/domain/model"
)

// DataSource is the slice of the data-access helpers the table needs;
// satisfied by *client.Client.
type DataSource interface {
	ListRuas(ctx context.Context, page, perPage int) (client.ListResult, error)
	GetRuasDetail(ctx context.Context, id int64) (client.DetailResult, error)
	SaveRuas(ctx context.Context, id int64, form model.RuasForm) (client.Result, error)
	DeleteRuas(ctx context.Context, id int64) (client.Result, error)
}

type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
)

type Notice struct {
	Level NoticeLevel `json:"level"`
	Text  string      `json:"text"`
}

// State is the table's entire view state as one serializable record.
// It changes only through the Table's transitions; there are no ambient
// globals behind it.
type State struct {
	Rows            []model.Ruas       `json:"rows"`
	Page            int                `json:"page"`
	LastPage        int                `json:"last_page"`
	Loading         bool               `json:"loading"`
	Editing         *client.RuasDetail `json:"editing,omitempty"`
	DeleteTarget    *model.Ruas        `json:"delete_target,omitempty"`
	Notices         []Notice           `json:"notices"`
	RedirectToLogin bool               `json:"redirect_to_login"`
}

// Table owns the master-data view state and applies its transitions:
// load, edit, submit, delete-confirm and delete-rollback.
type Table struct {
	data    DataSource
	perPage int
	state   State
}

func NewTable(data DataSource, perPage int) *Table {
	if perPage <= 0 {
		perPage = 5
	}
	return &Table{
		data:    data,
		perPage: perPage,
		state: State{
			Rows:     []model.Ruas{},
			Page:     1,
			LastPage: 1,
			Notices:  []Notice{},
		},
	}
}

// State returns a copy; callers never mutate the table through it.
func (t *Table) State() State {
	s := t.state
	s.Rows = append([]model.Ruas(nil), t.state.Rows...)
	s.Notices = append([]Notice(nil), t.state.Notices...)
	if t.state.Editing != nil {
		editing := *t.state.Editing
		s.Editing = &editing
	}
	if t.state.DeleteTarget != nil {
		target := *t.state.DeleteTarget
		s.DeleteTarget = &target
	}
	return s
}

func (t *Table) LoadPage(ctx context.Context, page int) {
	if page < 1 {
		page = 1
	}
	t.state.Loading = true

	res, err := t.data.ListRuas(ctx, page, t.perPage)
	t.state.Loading = false
	if err != nil {
		t.notify(NoticeError, "failed to fetch ruas")
		return
	}

	if res.Status == http.StatusUnauthorized {
		t.state.RedirectToLogin = true
		return
	}
	if !res.Success {
		t.notify(NoticeError, res.Message)
		return
	}

	t.state.Rows = res.Data
	t.state.Page = safePage(res.CurrentPage)
	t.state.LastPage = safePage(res.LastPage)
}

// BeginEdit loads the detail for the edit modal, with the coordinate
// list already flattened to editable strings.
func (t *Table) BeginEdit(ctx context.Context, id int64) {
	t.state.Loading = true
	res, err := t.data.GetRuasDetail(ctx, id)
	t.state.Loading = false
	if err != nil {
		t.notify(NoticeError, "failed to fetch ruas detail")
		return
	}

	if res.Status == http.StatusUnauthorized {
		t.state.RedirectToLogin = true
		return
	}
	if !res.Success {
		t.notify(NoticeError, "failed to fetch ruas detail")
		return
	}

	detail := res.Data
	t.state.Editing = &detail
}

// Submit saves the modal form: create when no row is being edited,
// edit otherwise. On success it closes the modal and reloads the
// current page.
func (t *Table) Submit(ctx context.Context, form model.RuasForm) {
	var id int64
	if t.state.Editing != nil {
		id = t.state.Editing.ID
	}

	res, err := t.data.SaveRuas(ctx, id, form)
	if err != nil {
		t.notify(NoticeError, "failed to save ruas")
		return
	}

	if res.Status == http.StatusUnauthorized {
		t.state.RedirectToLogin = true
		return
	}
	if !res.Success {
		t.notify(NoticeError, "failed to save ruas")
		return
	}

	if id > 0 {
		t.notify(NoticeSuccess, "ruas updated")
	} else {
		t.notify(NoticeSuccess, "ruas created")
	}
	t.state.Editing = nil
	t.LoadPage(ctx, t.state.Page)
}

func (t *Table) RequestDelete(row model.Ruas) {
	target := row
	t.state.DeleteTarget = &target
}

func (t *Table) CancelDelete() {
	t.state.DeleteTarget = nil
}

// ConfirmDelete removes the target row optimistically, then settles the
// result: rollback to the exact prior rows on any failure (including a
// session rejection, which also flags the login redirect), or a reload
// of the previous page when the last row of a page beyond the first was
// deleted.
func (t *Table) ConfirmDelete(ctx context.Context) {
	if t.state.DeleteTarget == nil {
		return
	}
	target := *t.state.DeleteTarget
	t.state.DeleteTarget = nil

	prevRows := append([]model.Ruas(nil), t.state.Rows...)

	kept := make([]model.Ruas, 0, len(t.state.Rows))
	for _, row := range t.state.Rows {
		if row.ID != target.ID {
			kept = append(kept, row)
		}
	}
	t.state.Rows = kept

	res, err := t.data.DeleteRuas(ctx, target.ID)
	if err != nil || !res.Success {
		t.state.Rows = prevRows
		if res.Status == http.StatusUnauthorized {
			t.state.RedirectToLogin = true
			return
		}
		t.notify(NoticeError, "failed to delete ruas")
		return
	}

	t.notify(NoticeSuccess, "ruas deleted")

	if len(prevRows) == 1 && t.state.Page > 1 {
		t.LoadPage(ctx, t.state.Page-1)
	}
}

func (t *Table) notify(level NoticeLevel, text string) {
	if text == "" {
		text = "request failed"
	}
	t.state.Notices = append(t.state.Notices, Notice{Level: level, Text: text})
}

func safePage(p int) int {
	if p < 1 {
		return 1
	}
	return p
}
