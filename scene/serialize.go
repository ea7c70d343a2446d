package scene

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"
	"strconv"

	"github.com/plus3/scenery/ecs"
	"gopkg.in/yaml.v3"
)

// FormatVersion is written into every scene file
const FormatVersion = 1

var (
	ErrUnsupportedVersion = errors.New("unsupported scene version")
	ErrUnknownType        = errors.New("unknown component type")
	ErrDuplicate          = errors.New("duplicate scene key")
)

func unknownType(name string) error {
	return fmt.Errorf("%w: %s", ErrUnknownType, name)
}

// Serialize renders a scene as YAML. Identical scenes produce identical bytes.
func Serialize(scene *DynamicScene, registry *ecs.ComponentRegistry) ([]byte, error) {
	entities := mappingNode()
	for _, entity := range scene.Entities {
		components := mappingNode()
		for _, comp := range entity.Components {
			reg, ok := registry.Registration(reflect.TypeOf(comp))
			if !ok || !reg.Reflected {
				return nil, unknownType(ecs.TypeName(reflect.TypeOf(comp)))
			}

			value := &yaml.Node{}
			if err := value.Encode(comp); err != nil {
				return nil, fmt.Errorf("encode %s of entity %d: %w", reg.Name, entity.Entity, err)
			}
			components.Content = append(components.Content, stringNode(reg.Name), value)
		}

		body := mappingNode()
		body.Content = append(body.Content, stringNode("components"), components)
		entities.Content = append(entities.Content, intNode(uint64(entity.Entity)), body)
	}

	root := mappingNode()
	root.Content = append(root.Content,
		stringNode("version"), intNode(FormatVersion),
		stringNode("entities"), entities,
	)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}); err != nil {
		return nil, fmt.Errorf("encode scene: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode scene: %w", err)
	}
	return buf.Bytes(), nil
}

type document struct {
	Version  int       `yaml:"version"`
	Entities yaml.Node `yaml:"entities"`
}

type entityBody struct {
	Components yaml.Node `yaml:"components"`
}

// Deserialize parses YAML produced by Serialize. Component types are resolved
// by name through the registry; names it does not know fail the whole scene.
func Deserialize(data []byte, registry *ecs.ComponentRegistry) (*DynamicScene, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	if doc.Version != FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, doc.Version)
	}

	scene := &DynamicScene{}
	if doc.Entities.Kind == 0 {
		return scene, nil
	}
	if doc.Entities.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parse scene: line %d: entities must be a mapping", doc.Entities.Line)
	}

	seen := make(map[uint64]bool, len(doc.Entities.Content)/2)
	for i := 0; i+1 < len(doc.Entities.Content); i += 2 {
		key, value := doc.Entities.Content[i], doc.Entities.Content[i+1]
		id, err := strconv.ParseUint(key.Value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse scene: line %d: entity id %q: %w", key.Line, key.Value, err)
		}
		if seen[id] {
			return nil, fmt.Errorf("%w: line %d: entity %d", ErrDuplicate, key.Line, id)
		}
		seen[id] = true

		entity, err := decodeEntity(ecs.EntityId(id), value, registry)
		if err != nil {
			return nil, err
		}
		scene.Entities = append(scene.Entities, entity)
	}
	return scene, nil
}

func decodeEntity(id ecs.EntityId, node *yaml.Node, registry *ecs.ComponentRegistry) (DynamicEntity, error) {
	entity := DynamicEntity{Entity: id}

	var body entityBody
	if err := node.Decode(&body); err != nil {
		return entity, fmt.Errorf("parse entity %d: %w", id, err)
	}
	if body.Components.Kind == 0 {
		return entity, nil
	}
	if body.Components.Kind != yaml.MappingNode {
		return entity, fmt.Errorf("parse entity %d: line %d: components must be a mapping", id, body.Components.Line)
	}

	seen := make(map[string]bool, len(body.Components.Content)/2)
	for i := 0; i+1 < len(body.Components.Content); i += 2 {
		key, value := body.Components.Content[i], body.Components.Content[i+1]
		name := key.Value
		if seen[name] {
			return entity, fmt.Errorf("%w: line %d: component %s of entity %d", ErrDuplicate, key.Line, name, id)
		}
		seen[name] = true

		reg, ok := registry.RegistrationByName(name)
		if !ok {
			return entity, unknownType(name)
		}

		ptr := reflect.New(reg.Type)
		if err := value.Decode(ptr.Interface()); err != nil {
			return entity, fmt.Errorf("decode %s of entity %d: %w", name, id, err)
		}
		entity.Components = append(entity.Components, ptr.Elem().Interface())
	}
	return entity, nil
}

func mappingNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
}

func stringNode(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

func intNode(value uint64) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatUint(value, 10)}
}
