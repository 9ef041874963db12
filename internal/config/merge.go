package config

import (
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"reflect"
	"slices"

	"gopkg.in/yaml.v3"
)

// Merge deep-merges the given configuration files into a single YAML
// document. Arguments may name directories, which are walked for .yaml
// and .yml files. Nested maps merge recursively; for conflicting
// scalars the last file wins unless conflictError is set.
func Merge(configFiles []string, conflictError bool) ([]byte, error) {

	var paths []string
	for _, f := range configFiles {
		if err := filepath.WalkDir(f, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if path != f {
				// Found by walking a directory argument: only pick up YAML.
				if ext := filepath.Ext(path); ext != ".yaml" && ext != ".yml" {
					return nil
				}
			}
			paths = append(paths, path)
			return nil
		}); err != nil {
			return nil, err
		}
	}

	docs := make([]map[string]any, 0, len(paths))
	for _, f := range paths {
		bs, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %v: %v", f, err)
		}
		var doc map[string]any
		if err := yaml.Unmarshal(bs, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse config file %v: %v", f, err)
		}
		docs = append(docs, doc)
	}

	merged, err := merge(docs, "", conflictError)
	if err != nil {
		return nil, err
	}

	bs, err := yaml.Marshal(merged)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal merged config: %v", err)
	}

	return bs, nil
}

func merge(docs []map[string]any, path string, conflictError bool) (map[string]any, error) {
	result := make(map[string]any)
	for _, doc := range docs {
		if err := mergeInto(result, doc, path, conflictError); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func mergeInto(dst, src map[string]any, path string, conflictError bool) error {
	// Sort keys to ensure deterministic merge errors.
	for _, key := range slices.Sorted(maps.Keys(src)) {
		value := src[key]
		existing, ok := dst[key]
		if !ok {
			dst[key] = value
			continue
		}

		dstMap, ok1 := existing.(map[string]any)
		srcMap, ok2 := value.(map[string]any)
		if ok1 && ok2 {
			if err := mergeInto(dstMap, srcMap, path+"/"+key, conflictError); err != nil {
				return err
			}
			continue
		}

		if conflictError && !reflect.DeepEqual(existing, value) {
			return fmt.Errorf("conflicting values for config key %s", path+"/"+key)
		}
		dst[key] = value
	}
	return nil
}
