package repository

import (
	"encoding/json"
	"fmt"

	"github.com/trackforever/backend/internal/model"
)

// 永続化形式は API と同じ JSON ドキュメント

func marshalProject(p *model.Project) ([]byte, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal project %s: %w", p.ID, err)
	}
	return b, nil
}

func unmarshalProject(b []byte) (*model.Project, error) {
	var p model.Project
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("unmarshal project: %w", err)
	}
	return &p, nil
}
