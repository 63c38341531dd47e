package utils

import (
	"runtime/debug"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

const (
	unknownVersion       = "unknown"
	develVersion         = "(devel)"
	developmentPrefix    = "dev-"
	shortCommitHashWidth = 7
)

// GetApplicationVersion determines the application version. Go build info wins;
// inside a Git checkout the tag pointing at HEAD is used, then the short commit hash.
func GetApplicationVersion() string {
	buildInfo, buildInfoAvailable := debug.ReadBuildInfo()
	if buildInfoAvailable && buildInfo.Main.Version != "" && buildInfo.Main.Version != develVersion {
		return buildInfo.Main.Version
	}
	if repositoryVersion := versionFromRepository("."); repositoryVersion != "" {
		return repositoryVersion
	}
	return unknownVersion
}

// versionFromRepository searches upward from startDirectory for a repository
// and describes its HEAD commit.
func versionFromRepository(startDirectory string) string {
	repository, openError := git.PlainOpenWithOptions(startDirectory, &git.PlainOpenOptions{DetectDotGit: true})
	if openError != nil {
		return ""
	}
	head, headError := repository.Head()
	if headError != nil {
		return ""
	}

	tagName := ""
	tags, tagsError := repository.Tags()
	if tagsError == nil {
		_ = tags.ForEach(func(reference *plumbing.Reference) error {
			target := reference.Hash()
			if annotated, tagObjectError := repository.TagObject(target); tagObjectError == nil {
				target = annotated.Target
			}
			if target == head.Hash() {
				tagName = reference.Name().Short()
			}
			return nil
		})
	}
	if tagName != "" {
		return tagName
	}
	return developmentPrefix + head.Hash().String()[:shortCommitHashWidth]
}
