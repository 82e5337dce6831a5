// Package siteconfig migrates a blog's site configuration between template
// versions and toggles automation flags in it, editing the YAML tree so user
// comments and key order survive.
package siteconfig

import (
	"log/slog"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/blogkit/internal/config"
	ferrors "git.home.luguber.info/inful/blogkit/internal/foundation/errors"
	"git.home.luguber.info/inful/blogkit/internal/logfields"
)

const versionKey = "configVersion"

// MergeMissing copies every key of the defaults mapping that dst lacks,
// recursing where both sides hold mappings. Existing user values, including
// ones of a different kind, always win. configVersion is never copied. The
// dotted paths of added keys are returned.
func MergeMissing(dst, defaults *yaml.Node) []string {
	return mergeMissing(dst, defaults, "")
}

func mergeMissing(dst, src *yaml.Node, prefix string) []string {
	var added []string
	for i := 0; i+1 < len(src.Content); i += 2 {
		key, sv := src.Content[i], src.Content[i+1]
		if prefix == "" && key.Value == versionKey {
			continue
		}
		path := key.Value
		if prefix != "" {
			path = prefix + "." + key.Value
		}
		tv := lookup(dst, key.Value)
		switch {
		case tv == nil:
			dst.Content = append(dst.Content, clone(key), clone(sv))
			added = append(added, path)
		case sv.Kind == yaml.MappingNode && tv.Kind == yaml.MappingNode:
			added = append(added, mergeMissing(tv, sv, path)...)
		}
	}
	return added
}

// UpgradeResult describes what Upgrade did.
type UpgradeResult struct {
	From     string
	To       string
	Added    []string
	UpToDate bool
}

// Upgrade brings the user site config at userPath up to the defaults'
// configVersion: missing keys are merged in and the version stamp is set.
// A config already at that version is left untouched.
func Upgrade(userPath string, defaults *config.SiteDocument) (UpgradeResult, error) {
	target := defaults.Config.ConfigVersion
	if target == "" {
		return UpgradeResult{}, ferrors.ConfigError("default site configuration has no configVersion").
			WithContext("path", defaults.Path).Build()
	}

	user, err := config.LoadSite(userPath)
	if err != nil {
		return UpgradeResult{}, err
	}

	res := UpgradeResult{From: user.Config.ConfigVersion, To: target}
	if res.From == target {
		res.UpToDate = true
		slog.Info("Site configuration is already up to date", logfields.Path(userPath), logfields.Version(target))
		return res, nil
	}

	res.Added = MergeMissing(user.Mapping(), defaults.Mapping())
	setScalar(user.Mapping(), versionKey, target, "!!str", true)
	if err := user.Save(); err != nil {
		return res, err
	}
	slog.Info("Upgraded site configuration",
		logfields.Path(userPath),
		slog.String("from", res.From),
		logfields.Version(target),
		logfields.Count(len(res.Added)))
	return res, nil
}

// SetForceUpdate sets automation.forceUpdate in the site config at path,
// creating the automation block when missing.
func SetForceUpdate(path string, enabled bool) error {
	doc, err := config.LoadSite(path)
	if err != nil {
		return err
	}
	m := doc.Mapping()
	automation := lookup(m, "automation")
	switch {
	case automation == nil:
		automation = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: "automation"}, automation)
	case automation.Kind != yaml.MappingNode:
		return ferrors.ConfigError("automation must be a mapping").WithContext("path", path).Build()
	}

	value := "false"
	if enabled {
		value = "true"
	}
	setScalar(automation, "forceUpdate", value, "!!bool", false)
	if err := doc.Save(); err != nil {
		return err
	}
	slog.Info("Updated automation.forceUpdate", logfields.Path(path), slog.Bool("enabled", enabled))
	return nil
}
