package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/iWorld-y/content_flow/app/content_flow/pkg/model"
)

// LoadProfile 从 YAML（或 JSON）文件读取公司画像并校验
func LoadProfile(path string) (*model.CompanyProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var p model.CompanyProfile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}
