package model

import "encoding/json"

// Go models that match resume.schema.json. Records travel through the
// pipeline as plain maps; these types are a typed way to build one.

type Education struct {
	Institution string `json:"institution,omitempty"`
	Location    string `json:"location,omitempty"`
	Degree      string `json:"degree,omitempty"`
	Date        string `json:"date,omitempty"`
}

type SkillGroup struct {
	Category string `json:"category"`
	Items    string `json:"items"`
}

type Role struct {
	Company  string   `json:"company"`
	Location string   `json:"location,omitempty"`
	Title    string   `json:"title"`
	Date     string   `json:"date,omitempty"`
	Bullets  []string `json:"bullets,omitempty"`
}

type Project struct {
	Name    string   `json:"name"`
	Tech    string   `json:"tech,omitempty"`
	Date    string   `json:"date,omitempty"`
	Bullets []string `json:"bullets,omitempty"`
}

type Resume struct {
	Name       string       `json:"name"`
	Phone      string       `json:"phone,omitempty"`
	Email      string       `json:"email,omitempty"`
	LinkedIn   string       `json:"linkedin,omitempty"`
	GitHub     string       `json:"github,omitempty"`
	Education  []Education  `json:"education,omitempty"`
	Skills     []SkillGroup `json:"skills,omitempty"`
	Experience []Role       `json:"experience,omitempty"`
	Projects   []Project    `json:"projects,omitempty"`
}

// Record converts r into the generic map form consumed by the renderer.
func (r Resume) Record() (map[string]interface{}, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}
