// Package gitpath contains consts and methods to work with paths inside
// the .git directory
package gitpath

import "path/filepath"

// .git/ Files and directories. Ref related paths are kept in unix
// format since that's how they must be stored; the backend converts
// them to the host's separator when touching the filesystem.
const (
	DotGitPath      = ".git"
	ConfigPath      = "config"
	DescriptionPath = "description"
	HEADPath        = "HEAD"
	ObjectsPath     = "objects"
	ObjectsInfoPath = ObjectsPath + "/info"
	ObjectsPackPath = ObjectsPath + "/pack"
	RefsPath        = "refs"
	RefsTagsPath    = RefsPath + "/tags"
	RefsHeadsPath   = RefsPath + "/heads"
)

// Ref returns the unix path of a reference given its name relative to
// the refs directory, ex. "master" -> "refs/master", "heads/master" ->
// "refs/heads/master". A name that already starts with "refs/" gets a
// second "refs/" prefix.
func Ref(name string) string {
	return filepath.ToSlash(filepath.Join(RefsPath, name))
}

// LocalBranch returns the unix path of a local branch ref, ex. "main" ->
// "refs/heads/main"
func LocalBranch(name string) string {
	return filepath.ToSlash(filepath.Join(RefsHeadsPath, name))
}

// LocalTag returns the unix path of a local tag ref, ex. "v1" ->
// "refs/tags/v1"
func LocalTag(name string) string {
	return filepath.ToSlash(filepath.Join(RefsTagsPath, name))
}

// LooseObjectPath returns the path of a loose object relative to the
// .git directory: objects/<aa>/<bb...>
func LooseObjectPath(sha string) string {
	return filepath.Join(ObjectsPath, sha[:2], sha[2:])
}
