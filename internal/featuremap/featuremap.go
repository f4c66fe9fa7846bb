// Package featuremap loads the feature/user-story map that drives batch
// estimation: a TOML document grouping Studio components under the user
// stories of each feature.
package featuremap

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

const defaultSequence = 999

// Component is one customization unit inside a user story. Type, Model
// and Name are derived from Ref; SourceLocation points at the code to
// analyze and may be a file, directory or glob relative to the project
// root.
type Component struct {
	Ref            string `json:"ref"`
	SourceLocation string `json:"sourceLocation,omitempty"`

	Type  string `json:"type"`
	Model string `json:"model"`
	Name  string `json:"name"`
}

// UserStory groups the components delivering one story of a feature.
type UserStory struct {
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Sequence    int64       `json:"sequence"`
	Components  []Component `json:"components"`
}

// Feature groups the user stories of one delivered capability.
type Feature struct {
	Name         string      `json:"name"`
	Description  string      `json:"description,omitempty"`
	Sequence     int64       `json:"sequence"`
	EnrichStatus string      `json:"enrichStatus,omitempty"`
	TaskID       int64       `json:"taskId,omitempty"`
	Tags         string      `json:"tags,omitempty"`
	UserStories  []UserStory `json:"userStories"`
}

// Components returns every component of the feature across its stories,
// in story order.
func (f Feature) Components() []Component {
	var all []Component
	for _, story := range f.UserStories {
		all = append(all, story.Components...)
	}
	return all
}

// rawFeature mirrors the TOML shape. UserStories is either a table of
// story tables (current format) or a plain array of story tables (legacy
// format), so it decodes untyped and is shaped afterwards.
type rawFeature struct {
	Description  string      `toml:"description"`
	Sequence     *int64      `toml:"sequence"`
	Deprecated   bool        `toml:"_deprecated"`
	EnrichStatus string      `toml:"enrich-status"`
	TaskID       int64       `toml:"task_id"`
	Tags         string      `toml:"tags"`
	UserStories  interface{} `toml:"user_stories"`
}

type rawDocument struct {
	Features map[string]rawFeature `toml:"features"`
}

// ParseRef splits a component reference of the form type.model.name,
// where the model segment spells dots as underscores
// (field.sale_order.x_studio_total refers to model sale.order).
func ParseRef(ref string) (componentType, model, name string, err error) {
	parts := strings.Split(ref, ".")
	if len(parts) != 3 {
		return "", "", "", fmt.Errorf("component ref %q is not of the form type.model.name", ref)
	}
	for _, p := range parts {
		if p == "" {
			return "", "", "", fmt.Errorf("component ref %q has an empty segment", ref)
		}
	}
	return parts[0], strings.ReplaceAll(parts[1], "_", "."), parts[2], nil
}

// Load reads and validates a feature map. Deprecated features are
// dropped; features and stories come back sorted by (sequence, name) so
// estimation output is stable across runs.
func Load(path string) ([]Feature, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read feature map %s: %w", path, err)
	}

	var doc rawDocument
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse feature map %s: %w", path, err)
	}

	features := make([]Feature, 0, len(doc.Features))
	for name, raw := range doc.Features {
		if raw.Deprecated {
			continue
		}

		feature := Feature{
			Name:         name,
			Description:  raw.Description,
			Sequence:     defaultSequence,
			EnrichStatus: raw.EnrichStatus,
			TaskID:       raw.TaskID,
			Tags:         raw.Tags,
		}
		if feature.Description == "" {
			feature.Description = name
		}
		if raw.Sequence != nil {
			feature.Sequence = *raw.Sequence
		}
		if feature.EnrichStatus == "" {
			feature.EnrichStatus = "refresh-all"
		}
		if feature.Tags == "" {
			feature.Tags = "Feature"
		}

		stories, err := parseUserStories(raw.UserStories)
		if err != nil {
			return nil, fmt.Errorf("feature %q: %w", name, err)
		}
		feature.UserStories = stories

		features = append(features, feature)
	}

	sort.Slice(features, func(i, j int) bool {
		if features[i].Sequence != features[j].Sequence {
			return features[i].Sequence < features[j].Sequence
		}
		return features[i].Name < features[j].Name
	})

	return features, nil
}

// parseUserStories shapes the untyped user_stories value. The current
// format is a table keyed by story name; the legacy format is an array
// of story tables named by their description.
func parseUserStories(value interface{}) ([]UserStory, error) {
	var stories []UserStory

	switch v := value.(type) {
	case nil:
		return nil, nil
	case map[string]interface{}:
		for name, item := range v {
			data, ok := item.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("user story %q must be a table, got %T", name, item)
			}
			story, err := parseStory(name, data)
			if err != nil {
				return nil, err
			}
			stories = append(stories, story)
		}
	case []interface{}:
		for i, item := range v {
			data, ok := item.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("user story %d must be a table, got %T", i, item)
			}
			name, _ := data["description"].(string)
			if name == "" {
				name = "Unnamed User Story"
			}
			story, err := parseStory(name, data)
			if err != nil {
				return nil, err
			}
			stories = append(stories, story)
		}
	default:
		return nil, fmt.Errorf("user_stories must be a table or an array, got %T", value)
	}

	sort.Slice(stories, func(i, j int) bool {
		if stories[i].Sequence != stories[j].Sequence {
			return stories[i].Sequence < stories[j].Sequence
		}
		return stories[i].Name < stories[j].Name
	})

	return stories, nil
}

func parseStory(name string, data map[string]interface{}) (UserStory, error) {
	story := UserStory{Name: name, Sequence: defaultSequence}

	if desc, ok := data["description"].(string); ok {
		story.Description = desc
	}
	if seq, ok := data["sequence"].(int64); ok {
		story.Sequence = seq
	}

	if items, ok := data["components"].([]interface{}); ok {
		for i, item := range items {
			comp, err := parseComponentItem(item)
			if err != nil {
				return story, fmt.Errorf("story %q, component %d: %w", name, i, err)
			}
			story.Components = append(story.Components, comp)
		}
	}

	return story, nil
}

func parseComponentItem(item interface{}) (Component, error) {
	var comp Component

	switch v := item.(type) {
	case string:
		comp.Ref = v
	case map[string]interface{}:
		ref, ok := v["ref"].(string)
		if !ok || ref == "" {
			return comp, fmt.Errorf("component table has no ref")
		}
		comp.Ref = ref
		if loc, ok := v["source_location"].(string); ok {
			comp.SourceLocation = loc
		}
	default:
		return comp, fmt.Errorf("component entry must be a ref string or a table, got %T", item)
	}

	componentType, model, name, err := ParseRef(comp.Ref)
	if err != nil {
		return comp, err
	}
	comp.Type = componentType
	comp.Model = model
	comp.Name = name

	return comp, nil
}
