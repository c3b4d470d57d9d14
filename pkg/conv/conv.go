// Package conv 提供类型转换、配置取值等泛型工具，用于简化各模块中的重复逻辑。
package conv

import "strconv"

// ToFloat64 将 any 转为 float64。
// 支持 float64、float32、int、int64、int32；bool 视为 1.0/0.0。
func ToFloat64(v any) (float64, bool) {
	if v == nil {
		return 0, false
	}
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case int32:
		return float64(val), true
	case bool:
		if val {
			return 1.0, true
		}
		return 0.0, true
	default:
		return 0, false
	}
}

// ToInt 将 any 转为 int。
// 支持 int、int64、int32、float64、float32。
func ToInt(v any) (int, bool) {
	if v == nil {
		return 0, false
	}
	switch val := v.(type) {
	case int:
		return val, true
	case int64:
		return int(val), true
	case int32:
		return int(val), true
	case float64:
		return int(val), true
	case float32:
		return int(val), true
	default:
		return 0, false
	}
}

// ToString 将 any 转为 string。
// 仅支持 string 类型，否则返回 ("", false)。
func ToString(v any) (string, bool) {
	if v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// TypeAssert 对 v 做类型断言为 T，等价于 v.(T) 的 (val, ok) 形式。
func TypeAssert[T any](v any) (T, bool) {
	t, ok := v.(T)
	return t, ok
}

// ConvertSlice 将 []T 按 convert 转为 []U，convert 返回 false 的元素被跳过。
func ConvertSlice[T, U any](s []T, convert func(T) (U, bool)) []U {
	if s == nil {
		return nil
	}
	out := make([]U, 0, len(s))
	for _, v := range s {
		if u, ok := convert(v); ok {
			out = append(out, u)
		}
	}
	return out
}

// Int64sToStrings 将 ID 切片转为字符串切片（Redis 有序集合的 member 是字符串）。
func Int64sToStrings(ids []int64) []string {
	return ConvertSlice(ids, func(id int64) (string, bool) {
		return strconv.FormatInt(id, 10), true
	})
}

// StringsToInt64s 将字符串切片解析回 ID 切片，解析失败的元素被跳过。
func StringsToInt64s(ss []string) []int64 {
	return ConvertSlice(ss, func(s string) (int64, bool) {
		id, err := strconv.ParseInt(s, 10, 64)
		return id, err == nil
	})
}

// SliceAnyToString 将 []any（YAML/JSON 列表的解析结果）转为 []string，非字符串元素被跳过。
func SliceAnyToString(v any) []string {
	s, ok := v.([]any)
	if !ok {
		return nil
	}
	return ConvertSlice(s, ToString)
}

// SliceAnyToInt64 将 []any 转为 []int64。YAML 里的整数解析为 int，此处统一；无法转换的元素被跳过。
func SliceAnyToInt64(v any) []int64 {
	s, ok := v.([]any)
	if !ok {
		return nil
	}
	return ConvertSlice(s, func(e any) (int64, bool) {
		switch val := e.(type) {
		case int:
			return int64(val), true
		case int64:
			return val, true
		case float64:
			return int64(val), true
		default:
			return 0, false
		}
	})
}

// ConfigGet 从 map[string]any（如 YAML/JSON 解析结果）按 key 取 T，取不到或类型不符时返回 defaultVal。
func ConfigGet[T any](m map[string]any, key string, defaultVal T) T {
	if m == nil {
		return defaultVal
	}
	v, ok := m[key]
	if !ok {
		return defaultVal
	}
	t, ok := v.(T)
	if !ok {
		return defaultVal
	}
	return t
}

// ConfigGetInt 从 config 取 int。YAML/JSON 常得到 int64 或 float64，此处兼容并统一为 int。
func ConfigGetInt(m map[string]any, key string, defaultVal int) int {
	if m == nil {
		return defaultVal
	}
	v, ok := m[key]
	if !ok {
		return defaultVal
	}
	if n, ok := ToInt(v); ok {
		return n
	}
	return defaultVal
}

// ConfigGetInt64 从 config 取 int64。
func ConfigGetInt64(m map[string]any, key string, defaultVal int64) int64 {
	if m == nil {
		return defaultVal
	}
	v, ok := m[key]
	if !ok {
		return defaultVal
	}
	switch val := v.(type) {
	case int:
		return int64(val)
	case int64:
		return val
	case float64:
		return int64(val)
	case float32:
		return int64(val)
	default:
		return defaultVal
	}
}

// ConfigGetFloat64 从 config 取 float64。YAML 里写 0.3 得到 float64，写 1 得到 int，此处统一。
func ConfigGetFloat64(m map[string]any, key string, defaultVal float64) float64 {
	if m == nil {
		return defaultVal
	}
	v, ok := m[key]
	if !ok {
		return defaultVal
	}
	if f, ok := ToFloat64(v); ok {
		return f
	}
	return defaultVal
}
