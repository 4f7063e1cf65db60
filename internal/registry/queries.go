// Package registry loads query sets from disk.
package registry

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/calder-analytics/evidence-cli/internal/model"
)

// queryFile is the on-disk shape of a query set.
type queryFile struct {
	Queries []model.Query `yaml:"queries"`
}

// LoadQueriesFromFile reads a YAML query set from the given path. Queries
// without an explicit id are assigned one positionally (q1, q2, ...).
func LoadQueriesFromFile(path string) ([]model.Query, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "registry: read queries file")
	}

	var qf queryFile
	if err := yaml.Unmarshal(data, &qf); err != nil {
		return nil, eris.Wrap(err, "registry: unmarshal queries file")
	}
	if len(qf.Queries) == 0 {
		return nil, eris.Errorf("registry: no queries in %s", path)
	}

	seen := make(map[string]bool, len(qf.Queries))
	for i := range qf.Queries {
		q := &qf.Queries[i]
		if q.ID == "" {
			q.ID = fmt.Sprintf("q%d", i+1)
		}
		if q.Text == "" {
			return nil, eris.Errorf("registry: query %s has empty text", q.ID)
		}
		if seen[q.ID] {
			return nil, eris.Errorf("registry: duplicate query id %s", q.ID)
		}
		seen[q.ID] = true
	}

	return qf.Queries, nil
}
