package model

import (
	"encoding/json"
	"fmt"
)

type Container struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

type Category struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	ContainerID string `json:"container_id"`
}

// Item is an inventory entry scoped to exactly one container and optionally
// tagged with one category of that container. Category holds the resolved
// category name as returned by list endpoints; CategoryID is the reference
// used on submit.
type Item struct {
	ID          string
	ContainerID string
	CategoryID  string
	Category    string

	Name        string
	Serie       string
	Description string
	Value       Amount
	DateCreated string
	// DateAdded is server-assigned on create and never submitted.
	DateAdded string
	Location  string
	Creator   string
	Owner     string
	Tags      []string
	Comment   string
	Condition Condition
	Number    int
	Edition   string

	Image ImageRef
}

// itemJSON is the wire shape. The image variant flattens to image_path XOR
// image_data+image_extension; Item's (un)marshalers keep the exclusivity.
type itemJSON struct {
	ID          string   `json:"_id,omitempty"`
	ContainerID string   `json:"container_id,omitempty"`
	CategoryID  string   `json:"category_id,omitempty"`
	Category    string   `json:"category,omitempty"`
	Name        string   `json:"name"`
	Serie       string   `json:"serie,omitempty"`
	Description string   `json:"description,omitempty"`
	Value       Amount   `json:"value"`
	DateCreated string   `json:"date_created,omitempty"`
	DateAdded   string   `json:"date_added,omitempty"`
	Location    string   `json:"location,omitempty"`
	Creator     string   `json:"creator,omitempty"`
	Owner       string   `json:"owner,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Comment     string   `json:"comment,omitempty"`
	Condition   string   `json:"condition,omitempty"`
	Number      int      `json:"number,omitempty"`
	Edition     string   `json:"edition,omitempty"`

	ImagePath      string `json:"image_path,omitempty"`
	ImageData      string `json:"image_data,omitempty"`
	ImageExtension string `json:"image_extension,omitempty"`
}

func (it Item) MarshalJSON() ([]byte, error) {
	w := itemJSON{
		ID:          it.ID,
		ContainerID: it.ContainerID,
		CategoryID:  it.CategoryID,
		Category:    it.Category,
		Name:        it.Name,
		Serie:       it.Serie,
		Description: it.Description,
		Value:       it.Value,
		DateCreated: it.DateCreated,
		DateAdded:   it.DateAdded,
		Location:    it.Location,
		Creator:     it.Creator,
		Owner:       it.Owner,
		Tags:        it.Tags,
		Comment:     it.Comment,
		Condition:   string(it.Condition),
		Number:      it.Number,
		Edition:     it.Edition,
	}
	if p, ok := it.Image.Path(); ok {
		w.ImagePath = p
	} else if data, ext, ok := it.Image.Upload(); ok {
		w.ImageData = data
		w.ImageExtension = ext
	}
	return json.Marshal(w)
}

func (it *Item) UnmarshalJSON(b []byte) error {
	var w itemJSON
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*it = Item{
		ID:          w.ID,
		ContainerID: w.ContainerID,
		CategoryID:  w.CategoryID,
		Category:    w.Category,
		Name:        w.Name,
		Serie:       w.Serie,
		Description: w.Description,
		Value:       w.Value,
		DateCreated: w.DateCreated,
		DateAdded:   w.DateAdded,
		Location:    w.Location,
		Creator:     w.Creator,
		Owner:       w.Owner,
		Tags:        w.Tags,
		Comment:     w.Comment,
		Condition:   Condition(w.Condition),
		Number:      w.Number,
		Edition:     w.Edition,
	}
	if w.ImageData != "" {
		it.Image = ImageUpload(w.ImageData, w.ImageExtension)
	} else {
		it.Image = ImagePath(w.ImagePath)
	}
	return nil
}

type Condition string

const (
	ConditionUnset          Condition = ""
	ConditionNew            Condition = "New"
	ConditionVeryGood       Condition = "Very Good"
	ConditionGood           Condition = "Good"
	ConditionUsed           Condition = "Used"
	ConditionDamaged        Condition = "Damaged"
	ConditionHeavilyDamaged Condition = "Heavily Damaged"
)

// Conditions returns the fixed condition list in display order.
func Conditions() []Condition {
	return []Condition{
		ConditionNew,
		ConditionVeryGood,
		ConditionGood,
		ConditionUsed,
		ConditionDamaged,
		ConditionHeavilyDamaged,
	}
}

func ParseCondition(s string) (Condition, error) {
	if s == "" {
		return ConditionUnset, nil
	}
	for _, c := range Conditions() {
		if string(c) == s {
			return c, nil
		}
	}
	return ConditionUnset, fmt.Errorf("unknown condition: %q", s)
}
