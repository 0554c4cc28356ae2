package astra

import "github.com/custodia-labs/vecsync/internal/core/domain"

// Table layout.
const (
	// VectorDimension is the embedding size of the vectorize model.
	VectorDimension = 1024

	// VectorProvider and VectorModel select the server side embedding service.
	VectorProvider = "nvidia"
	VectorModel    = "NV-Embed-QA"

	// PathIndex and VectorIndex name the table's secondary indexes.
	PathIndex   = "path_idx"
	VectorIndex = "vector_idx"
)

// row is a table row as sent and received by the Data API.
type row struct {
	ID         string `json:"_id"`
	Path       string `json:"path"`
	ChunkIndex int    `json:"chunkIndex"`
	Content    string `json:"content"`
}

func (r row) record() domain.ChunkRecord {
	return domain.ChunkRecord{
		ID:         r.ID,
		Path:       r.Path,
		ChunkIndex: r.ChunkIndex,
		Content:    r.Content,
	}
}

// rowProjection selects every column but the vector.
var rowProjection = map[string]int{
	"_id":        1,
	"path":       1,
	"chunkIndex": 1,
	"content":    1,
}

// tableDefinition is the createTable definition for chunk records.
func tableDefinition() map[string]any {
	return map[string]any{
		"columns": map[string]any{
			"_id":        "text",
			"path":       "text",
			"chunkIndex": "int",
			"content":    "text",
			"vector": map[string]any{
				"type":      "vector",
				"dimension": VectorDimension,
				"service": map[string]string{
					"provider":  VectorProvider,
					"modelName": VectorModel,
				},
			},
		},
		"primaryKey": "_id",
	}
}

// Command bodies. Each is wrapped in a single-key object naming the
// command, e.g. {"find": {...}}.

type createTableCommand struct {
	Name       string         `json:"name"`
	Definition map[string]any `json:"definition"`
	Options    ifNotExists    `json:"options"`
}

type createIndexCommand struct {
	Name       string          `json:"name"`
	Definition indexDefinition `json:"definition"`
	Options    ifNotExists     `json:"options"`
}

type indexDefinition struct {
	Column  string         `json:"column"`
	Options map[string]any `json:"options,omitempty"`
}

type ifNotExists struct {
	IfNotExists bool `json:"ifNotExists"`
}

type updateOneCommand struct {
	Filter map[string]any `json:"filter"`
	Update map[string]any `json:"update"`
}

type deleteOneCommand struct {
	Filter map[string]any `json:"filter"`
}

type findCommand struct {
	Filter     map[string]any `json:"filter,omitempty"`
	Sort       map[string]any `json:"sort,omitempty"`
	Projection map[string]int `json:"projection,omitempty"`
	Options    *findOptions   `json:"options,omitempty"`
}

type findOptions struct {
	Limit     int    `json:"limit,omitempty"`
	PageState string `json:"pageState,omitempty"`
}

// response is the envelope of every Data API reply.
type response struct {
	Status map[string]any `json:"status,omitempty"`
	Data   *findData      `json:"data,omitempty"`
	Errors []apiMessage   `json:"errors,omitempty"`
}

type findData struct {
	Documents     []row   `json:"documents"`
	NextPageState *string `json:"nextPageState"`
}

type apiMessage struct {
	Message   string `json:"message"`
	ErrorCode string `json:"errorCode,omitempty"`
}

func (m apiMessage) String() string {
	if m.ErrorCode == "" {
		return m.Message
	}
	return m.ErrorCode + ": " + m.Message
}
