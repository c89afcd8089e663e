package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ScoreTolerance 子评分之和与综合评分允许的误差
const ScoreTolerance = 0.1

// ContentMixTotal 内容占比的目标总和
const ContentMixTotal = 100.0

var validate = newValidator()

// SchemaError 模型输出不符合约定结构，可重试
type SchemaError struct {
	Schema string
	Err    error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s schema violation: %v", e.Schema, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// IsSchemaError 判断错误链中是否包含 SchemaError
func IsSchemaError(err error) bool {
	var se *SchemaError
	return errors.As(err, &se)
}

// Decode 严格解析模型输出：去掉 Markdown 代码块，禁止未知字段与多余内容，再做结构校验
func Decode[T any](raw string) (*T, error) {
	name := reflect.TypeFor[T]().Name()

	content := StripCodeFence(raw)
	if content == "" {
		return nil, &SchemaError{Schema: name, Err: errors.New("empty response")}
	}

	dec := json.NewDecoder(strings.NewReader(content))
	dec.DisallowUnknownFields()

	var out T
	if err := dec.Decode(&out); err != nil {
		return nil, &SchemaError{Schema: name, Err: fmt.Errorf("json decode: %w", err)}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, &SchemaError{Schema: name, Err: errors.New("trailing data after JSON value")}
	}

	if err := validate.Struct(&out); err != nil {
		return nil, &SchemaError{Schema: name, Err: err}
	}
	return &out, nil
}

// StripCodeFence 去掉 ```json ... ``` 包裹
func StripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```JSON")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// 错误信息里使用 json 字段名
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterStructValidation(trendingTopicLevel, TrendingTopic{})
	v.RegisterStructValidation(contentPieceLevel, RecommendedContentPiece{})
	v.RegisterStructValidation(contentMixLevel, ContentMix{})
	return v
}

func trendingTopicLevel(sl validator.StructLevel) {
	t := sl.Current().Interface().(TrendingTopic)
	if !withinTolerance(t.SubScoreTotal(), t.TrendScore) {
		sl.ReportError(t.TrendScore, "trend_score", "TrendScore", "subscore_sum", fmt.Sprintf("%.2f", t.SubScoreTotal()))
	}
}

func contentPieceLevel(sl validator.StructLevel) {
	p := sl.Current().Interface().(RecommendedContentPiece)
	if !withinTolerance(p.SubScoreTotal(), p.PriorityScore) {
		sl.ReportError(p.PriorityScore, "priority_score", "PriorityScore", "subscore_sum", fmt.Sprintf("%.2f", p.SubScoreTotal()))
	}
}

func contentMixLevel(sl validator.StructLevel) {
	m := sl.Current().Interface().(ContentMix)
	if !withinTolerance(m.Total(), ContentMixTotal) {
		sl.ReportError(m, "content_mix", "ContentMix", "mix_total", fmt.Sprintf("%.2f", m.Total()))
	}
}

func withinTolerance(got, want float64) bool {
	return math.Abs(got-want) <= ScoreTolerance+1e-9
}
