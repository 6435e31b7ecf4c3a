package proxy

import (
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/hirely/gateway/internal/model"
)

// Endpoint は上流エンドポイントの記述子。
// 必須フィールド、列挙値制約、リスト/整数への正規化ルールを宣言的に保持する。
type Endpoint struct {
	Name       string
	Method     string
	Path       string
	Required   []string            // 必須フィールド名
	Enums      map[string][]string // フィールド名 -> 許容値
	ListFields []string            // スカラーでも常にリストへ正規化するフィールド
	IntFields  []string            // 整数へ強制変換するフィールド
}

// GenerateInterviewEndpoint は面接問題生成エンドポイントの記述子を返す。
func GenerateInterviewEndpoint() Endpoint {
	return Endpoint{
		Name:     "generate_interview",
		Method:   http.MethodPost,
		Path:     "/interviews/generate/",
		Required: []string{"type", "role", "level", "amount"},
		Enums: map[string][]string{
			"type":  {"Technical", "Behavioral", "Mixed"},
			"level": {"Entry", "Mid", "Senior", "Lead"},
		},
		ListFields: []string{"techstack"},
		IntFields:  []string{"amount"},
	}
}

// ValidateAndNormalize はペイロードを記述子に対して検証し、正規化した
// コピーを返す。検証はネットワーク到達前に完了し、失敗時は即座に
// VALIDATION_ERRORを返す。入力のpayloadは変更しない。
func (e Endpoint) ValidateAndNormalize(payload map[string]any) (map[string]any, *model.APIError) {
	// 1. 必須フィールドの確認
	var missing []string
	for _, field := range e.Required {
		if isBlank(payload[field]) {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return nil, model.NewValidationError(fmt.Sprintf(
			"Missing required fields: %s are required", strings.Join(missing, ", ")))
	}

	normalized := make(map[string]any, len(payload))
	for k, v := range payload {
		normalized[k] = v
	}

	// 2. 列挙値の検証
	for field, allowed := range e.Enums {
		v, ok := normalized[field]
		if !ok {
			continue
		}
		s, isString := v.(string)
		if !isString || !slices.Contains(allowed, s) {
			return nil, model.NewValidationError(fmt.Sprintf(
				"Invalid value for %s: must be one of %s", field, strings.Join(allowed, ", ")))
		}
	}

	// 3. スカラー/リスト両対応フィールドをリストに正規化
	for _, field := range e.ListFields {
		switch v := normalized[field].(type) {
		case nil:
			normalized[field] = []any{}
		case []any:
			// 既にリスト
		default:
			normalized[field] = []any{v}
		}
	}

	// 4. 整数フィールドの強制変換
	for _, field := range e.IntFields {
		n, err := coerceInt(normalized[field])
		if err != nil {
			return nil, model.NewValidationError(fmt.Sprintf(
				"Invalid value for %s: must be an integer", field))
		}
		normalized[field] = n
	}

	return normalized, nil
}

// isBlank は必須チェックにおける「値なし」を判定する。
// nil、空文字列、数値ゼロを欠落として扱う。
func isBlank(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case float64:
		return t == 0
	case int:
		return t == 0
	case json.Number:
		return t.String() == "0"
	default:
		return false
	}
}

// coerceInt は数値・数値文字列を整数に変換する。
func coerceInt(v any) (int, error) {
	switch t := v.(type) {
	case int:
		return t, nil
	case float64:
		return int(t), nil
	case json.Number:
		n, err := t.Int64()
		if err != nil {
			f, ferr := t.Float64()
			if ferr != nil {
				return 0, err
			}
			return int(f), nil
		}
		return int(n), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, fmt.Errorf("not an integer: %q", t)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("not an integer: %v", v)
	}
}
