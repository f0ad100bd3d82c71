package todoist

import (
	"bytes"
	"encoding/json"
	"strconv"

	"craftdoist/internal/service"
)

// wireID accepts both numeric and string IDs.
type wireID string

func (id *wireID) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = wireID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = wireID(n.String())
	return nil
}

// MarshalJSON writes numeric IDs as numbers.
func (id wireID) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseUint(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

type wireDue struct {
	Date      string `json:"date"`
	Datetime  string `json:"datetime"`
	Recurring bool   `json:"recurring"`
	String    string `json:"string"`
}

type wireTask struct {
	ID          wireID   `json:"id"`
	Content     string   `json:"content"`
	Description string   `json:"description"`
	ProjectID   wireID   `json:"project_id"`
	SectionID   wireID   `json:"section_id"`
	ParentID    wireID   `json:"parent_id"`
	Order       int      `json:"order"`
	Priority    int      `json:"priority"`
	Due         *wireDue `json:"due"`
	LabelIDs    []wireID `json:"label_ids"`
	URL         string   `json:"url"`
	Completed   bool     `json:"completed"`
}

type wireProject struct {
	ID   wireID `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

type wireSection struct {
	ID        wireID `json:"id"`
	Name      string `json:"name"`
	ProjectID wireID `json:"project_id"`
}

type wireLabel struct {
	ID   wireID `json:"id"`
	Name string `json:"name"`
}

type wireNewTask struct {
	Content     string `json:"content"`
	Description string `json:"description,omitempty"`
	ProjectID   wireID `json:"project_id,omitempty"`
	DueDate     string `json:"due_date,omitempty"`
}

func (w wireTask) toTask() service.Task {
	t := service.Task{
		ID:          string(w.ID),
		Content:     w.Content,
		Description: w.Description,
		ProjectID:   string(w.ProjectID),
		ParentID:    string(w.ParentID),
		Order:       w.Order,
		Priority:    w.Priority,
		URL:         w.URL,
		Completed:   w.Completed,
	}
	if w.SectionID != "0" {
		t.SectionID = string(w.SectionID)
	}
	if t.ParentID == "0" {
		t.ParentID = ""
	}
	if t.URL == "" {
		t.URL = WebTaskURL + t.ID
	}
	if w.Due != nil {
		t.Due = &service.Due{
			Date:      w.Due.Date,
			Datetime:  w.Due.Datetime,
			Recurring: w.Due.Recurring,
			String:    w.Due.String,
		}
	}
	for _, id := range w.LabelIDs {
		t.LabelIDs = append(t.LabelIDs, string(id))
	}
	return t
}

func (w wireProject) toProject() service.Project {
	p := service.Project{ID: string(w.ID), Name: w.Name, URL: w.URL}
	if p.URL == "" {
		p.URL = WebProjectURL + p.ID
	}
	return p
}
