package compare

import (
	"encoding/json"

	"github.com/yongchuan/taxgo/internal/domain"
)

// JSONFormatter renders a comparison as indented JSON, matching the HTTP
// response shape.
type JSONFormatter struct{}

// Format marshals the comparison.
func (jf *JSONFormatter) Format(comparison *domain.ScenarioComparison) (string, error) {
	data, err := json.MarshalIndent(comparison, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
