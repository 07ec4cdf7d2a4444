package extract

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/synkit/syndef/internal/rustsrc"
)

// Collection is the result of the crawl pass: every recognized node
// declaration keyed by ident, plus the crate root's public re-export
// renames. Type texts inside are resolved by the introspection pass.
type Collection struct {
	Decls   map[string]*Decl
	Aliases map[string]string
}

// Crawl walks the crate's module tree from the configured root file,
// recognizing node declarations and recording root-level renames.
func Crawl(crateDir string, cfg Config) (*Collection, error) {
	c := &crawler{
		crateDir: crateDir,
		cfg:      cfg,
		coll: &Collection{
			Decls:   make(map[string]*Decl),
			Aliases: make(map[string]string),
		},
	}

	if err := c.loadFile(cfg.RootFile, nil, true); err != nil {
		return nil, err
	}

	return c.coll, nil
}

type crawler struct {
	crateDir string
	cfg      Config
	coll     *Collection
}

// loadFile crawls one module file. features is the predicate inherited
// from the module chain above it; root marks the crate root, the only
// file whose public re-exports feed the alias table.
func (c *crawler) loadFile(relPath string, features FeatureSet, root bool) error {
	src, err := os.ReadFile(filepath.Join(c.crateDir, relPath))
	if err != nil {
		return fmt.Errorf("read module file: %w", err)
	}

	file, err := rustsrc.Parse(relPath, src)
	if err != nil {
		return err
	}
	defer file.Close()

	for _, item := range file.Items() {
		switch item.Kind() {
		case rustsrc.KindMod:
			if err := c.enterModule(file, item, relPath, features); err != nil {
				return err
			}
		case rustsrc.KindMacroInvocation:
			if err := c.recognizeInvocation(file, item, features); err != nil {
				return err
			}
		case rustsrc.KindStruct:
			if err := c.captureExtraType(file, item, features); err != nil {
				return err
			}
		case rustsrc.KindUse:
			if root && item.IsPub() {
				c.recordAliases(file, item)
			}
		}
	}

	return nil
}

// enterModule follows a `mod name;` declaration into its file. Inline
// modules and the configured ignored modules are skipped.
func (c *crawler) enterModule(file *rustsrc.File, item rustsrc.Item, relPath string, inherited FeatureSet) error {
	name := item.Name()
	if item.HasInlineBody() || c.cfg.ignoredModule(name) {
		return nil
	}

	var (
		modFeatures FeatureSet
		err         error
	)

	// A forced gate replaces whatever the module's own attributes say.
	if forced, ok := c.cfg.ModuleFeatureOverrides[name]; ok {
		modFeatures = NewFeatureSet(forced)
	} else if modFeatures, err = itemFeatures(item, inherited); err != nil {
		return fmt.Errorf("module %s in %s: %w", name, relPath, err)
	}

	filename := name + ".rs"
	if override, ok := pathOverride(item.Attrs); ok {
		filename = override
	}

	return c.loadFile(filepath.Join(filepath.Dir(relPath), filename), modFeatures, false)
}

func (c *crawler) recognizeInvocation(file *rustsrc.File, item rustsrc.Item, inherited FeatureSet) error {
	decl, err := Recognize(file, item)
	if err != nil {
		return fmt.Errorf("%s: %w", file.Path, err)
	}

	if decl == nil {
		return nil
	}

	features, err := itemFeatures(item, inherited)
	if err != nil {
		return fmt.Errorf("%s: declaration %s: %w", file.Path, decl.Ident, err)
	}

	if !features.Empty() {
		decl.Features = append(decl.Features, features)
	}

	// Later declarations of the same ident replace earlier ones.
	c.coll.Decls[decl.Ident] = decl

	return nil
}

// captureExtraType records a plain struct declaration when its name is
// on the configured extra-types list.
func (c *crawler) captureExtraType(file *rustsrc.File, item rustsrc.Item, inherited FeatureSet) error {
	if !c.cfg.extraType(item.Name()) {
		return nil
	}

	decl, err := DeclFromStruct(file, item)
	if err != nil {
		return fmt.Errorf("%s: %w", file.Path, err)
	}

	features, err := itemFeatures(item, inherited)
	if err != nil {
		return fmt.Errorf("%s: declaration %s: %w", file.Path, decl.Ident, err)
	}

	if !features.Empty() {
		decl.Features = append(decl.Features, features)
	}

	c.coll.Decls[decl.Ident] = decl

	return nil
}

func (c *crawler) recordAliases(file *rustsrc.File, item rustsrc.Item) {
	arg := item.Node.ChildByFieldName("argument")
	if arg.IsNull() {
		return
	}

	file.UseAliases(arg, func(alias, original string) {
		c.coll.Aliases[alias] = original
	})
}

// itemFeatures folds the item's own cfg attributes over the inherited
// predicate. Non-cfg attributes (including cfg_attr) carry no gating.
func itemFeatures(item rustsrc.Item, inherited FeatureSet) (FeatureSet, error) {
	features := inherited

	for _, attr := range item.Attrs {
		if attr.Path() != "cfg" {
			continue
		}

		args, ok := attr.Args()
		if !ok {
			return nil, badCfg(attr.Text())
		}

		set, err := ParseCfg(args)
		if err != nil {
			return nil, err
		}

		if features, err = Merge(features, set); err != nil {
			return nil, err
		}
	}

	return features, nil
}

func pathOverride(attrs []rustsrc.Attribute) (string, bool) {
	for _, attr := range attrs {
		if attr.Path() != "path" {
			continue
		}

		if value, ok := attr.StringValue(); ok {
			return value, true
		}
	}

	return "", false
}
