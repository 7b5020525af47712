// Package stats fetches the library's repository, package and bundle size
// metadata from GitHub and Bundlephobia, caches it, and serves it as JSON.
package stats

// RepoStats is the body of /api/github/repo.
type RepoStats struct {
	Repository Repository   `json:"repository"`
	Package    *PackageInfo `json:"package"`
}

// Repository holds the GitHub metadata of the library. Nullable upstream
// fields stay nil so they encode as JSON null.
type Repository struct {
	Stars       int      `json:"stars"`
	Forks       int      `json:"forks"`
	Description *string  `json:"description"`
	Language    *string  `json:"language"`
	License     *string  `json:"license"`
	Topics      []string `json:"topics"`
	Readme      *string  `json:"readme"`
}

// PackageInfo is the name and version read from the repository package.json.
type PackageInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// BundleStats is the body of /api/bundlephobia.
type BundleStats struct {
	Size            int64  `json:"size"`
	Gzip            int64  `json:"gzip"`
	Version         string `json:"version"`
	DependencyCount int    `json:"dependencyCount"`
	HasJSModule     bool   `json:"hasJSModule"`
	HasJSNext       bool   `json:"hasJSNext"`
	IsModuleType    bool   `json:"isModuleType"`
}

// VersionInfo is the body of /api/version.
type VersionInfo struct {
	Version string `json:"version"`
}

// FallbackVersion is reported when the package version cannot be fetched.
const FallbackVersion = "0.0.0"

type githubRepo struct {
	StargazersCount int     `json:"stargazers_count"`
	ForksCount      int     `json:"forks_count"`
	Description     *string `json:"description"`
	Language        *string `json:"language"`
	License         *struct {
		Name string `json:"name"`
	} `json:"license"`
	Topics []string `json:"topics"`
}

type githubContent struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

type packageJSON struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}
