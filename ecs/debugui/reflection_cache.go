package debugui

import (
	"reflect"
	"strings"
	"sync"
)

// FieldInfo describes an exported struct field shown by the inspector.
// Label is the key the field is written under in scene files.
type FieldInfo struct {
	Name  string
	Label string
	Index int
}

type ReflectionCache struct {
	mu         sync.RWMutex
	fieldCache map[reflect.Type][]FieldInfo
}

func NewReflectionCache() *ReflectionCache {
	return &ReflectionCache{
		fieldCache: make(map[reflect.Type][]FieldInfo),
	}
}

func (rc *ReflectionCache) GetFields(t reflect.Type) []FieldInfo {
	rc.mu.RLock()
	cached, ok := rc.fieldCache[t]
	rc.mu.RUnlock()
	if ok {
		return cached
	}

	rc.mu.Lock()
	defer rc.mu.Unlock()

	if cached, ok := rc.fieldCache[t]; ok {
		return cached
	}

	var fields []FieldInfo
	if t.Kind() == reflect.Struct {
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if !field.IsExported() {
				continue
			}

			label := strings.ToLower(field.Name)
			if tag, _, _ := strings.Cut(field.Tag.Get("yaml"), ","); tag == "-" {
				continue
			} else if tag != "" {
				label = tag
			}

			fields = append(fields, FieldInfo{
				Name:  field.Name,
				Label: label,
				Index: i,
			})
		}
	}

	rc.fieldCache[t] = fields
	return fields
}

var globalReflectionCache = NewReflectionCache()
