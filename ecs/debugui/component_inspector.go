package debugui

import (
	"fmt"
	"reflect"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/scenery/ecs"
)

var entityIdType = reflect.TypeFor[ecs.EntityId]()

// ComponentInspectorComponent shows and edits the components of one entity.
// Edits write straight through the component pointers held by storage.
type ComponentInspectorComponent struct {
	selectedEntityId ecs.EntityId
	onSelect         func(ecs.EntityId)
}

func NewComponentInspectorComponent() ComponentInspectorComponent {
	return ComponentInspectorComponent{}
}

func (ci *ComponentInspectorComponent) Render(storage *ecs.Storage, selectedEntityId ecs.EntityId, onSelect func(ecs.EntityId)) {
	if !imgui.BeginV("Component Inspector", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}
	ci.selectedEntityId = selectedEntityId
	ci.onSelect = onSelect

	if !storage.Alive(ci.selectedEntityId) {
		imgui.Text("No entity selected")
		imgui.End()
		return
	}

	archetype := storage.GetArchetypeOf(ci.selectedEntityId)
	imgui.Text(fmt.Sprintf("Entity: %s", formatEntity(ci.selectedEntityId)))
	imgui.Text(fmt.Sprintf("Archetype: 0x%08X", archetype.ID()))
	if imgui.Button("Despawn") {
		ecs.DespawnRecursive(storage, ci.selectedEntityId)
		imgui.End()
		return
	}
	imgui.Separator()

	registry := storage.Registry()
	for _, component := range storage.Components(ci.selectedEntityId) {
		val := reflect.ValueOf(component).Elem()

		label := val.Type().String()
		if !registry.IsReflected(val.Type()) {
			label += " (not saved)"
		}
		if imgui.TreeNodeStr(label) {
			ci.renderValue(val)
			imgui.TreePop()
		}
	}

	imgui.End()
}

// renderValue draws every field of an addressable struct value
func (ci *ComponentInspectorComponent) renderValue(val reflect.Value) {
	if val.Kind() != reflect.Struct {
		ci.renderField("value", val)
		return
	}
	fields := globalReflectionCache.GetFields(val.Type())
	if len(fields) == 0 {
		imgui.TextDisabled("marker")
		return
	}
	for _, field := range fields {
		ci.renderField(field.Label, val.Field(field.Index))
	}
}

func (ci *ComponentInspectorComponent) renderField(name string, val reflect.Value) {
	id := fmt.Sprintf("##%s%p", name, val.Addr().Interface())

	if val.Type() == entityIdType {
		ci.renderEntityLink(name, ecs.EntityId(val.Uint()))
		return
	}

	switch val.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v := int32(val.Int())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(id, &v) && !val.OverflowInt(int64(v)) {
			val.SetInt(int64(v))
		}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v := int32(val.Uint())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(id, &v) && v >= 0 && !val.OverflowUint(uint64(v)) {
			val.SetUint(uint64(v))
		}

	case reflect.Float32, reflect.Float64:
		v := float32(val.Float())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.DragFloatV(id, &v, 0.01, 0, 0, "%.3f", imgui.SliderFlagsNone) {
			val.SetFloat(float64(v))
		}

	case reflect.Bool:
		v := val.Bool()
		if imgui.Checkbox(name+id, &v) {
			val.SetBool(v)
		}

	case reflect.String:
		v := val.String()
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(200)
		if imgui.InputTextWithHint(id, "", &v, imgui.InputTextFlagsNone, nil) {
			val.SetString(v)
		}

	case reflect.Struct:
		if imgui.TreeNodeStr(name) {
			ci.renderValue(val)
			imgui.TreePop()
		}

	case reflect.Slice, reflect.Array:
		if imgui.TreeNodeStr(fmt.Sprintf("%s [%d]", name, val.Len())) {
			for i := 0; i < val.Len(); i++ {
				ci.renderField(fmt.Sprintf("%d", i), val.Index(i))
			}
			imgui.TreePop()
		}

	default:
		imgui.Text(fmt.Sprintf("%s: %v", name, val.Interface()))
	}
}

func (ci *ComponentInspectorComponent) renderEntityLink(name string, target ecs.EntityId) {
	imgui.Text(fmt.Sprintf("%s:", name))
	imgui.SameLine()
	if target == 0 {
		imgui.TextDisabled("none")
		return
	}
	if imgui.SmallButton(formatEntity(target)) && ci.onSelect != nil {
		ci.onSelect(target)
	}
}
