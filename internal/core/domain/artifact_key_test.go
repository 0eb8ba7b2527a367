package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/b3rserker/gridmaven/internal/core/domain"
)

func TestArtifactKey(t *testing.T) {
	root := domain.Coordinate{Group: "com.acme", Artifact: "parent", Version: "1.0", Packaging: "pom"}
	m := domain.Coordinate{Group: "com.acme", Artifact: "core", Version: "1.0", Packaging: "jar"}

	key := domain.NewArtifactKey("nightly", root, m)

	assert.Equal(t, domain.ArtifactKey("nightly/com.acme:parent/core-1.0.jar"), key)
	assert.Equal(t, "/sources/nightly/com.acme:parent/core-1.0.jar", key.SourcePath())
	assert.Equal(t, "/repository/nightly/com.acme:parent/core-1.0.jar", key.OutputPath())
	assert.Equal(t, key, domain.NewArtifactKey("nightly", root, m), "keys are deterministic")
}

func TestArtifactKey_Sanitizes(t *testing.T) {
	root := domain.Coordinate{Group: "g", Artifact: "r"}
	m := domain.Coordinate{Group: "g", Artifact: "../evil", Version: "1"}

	key := domain.NewArtifactKey("team/job", root, m)

	assert.Equal(t, domain.ArtifactKey("team_job/g:r/__evil-1.jar"), key)
}

func TestBuildRequest_Clone(t *testing.T) {
	req := domain.BuildRequest{
		Goals:        []string{"install"},
		UpstreamKeys: []domain.ArtifactKey{"a"},
		Env:          map[string]string{"K": "V"},
	}

	c := req.Clone()
	c.Goals[0] = "deploy"
	c.Env["K"] = "X"
	c.UpstreamKeys[0] = "b"

	assert.Equal(t, "install", req.Goals[0])
	assert.Equal(t, "V", req.Env["K"])
	assert.Equal(t, domain.ArtifactKey("a"), req.UpstreamKeys[0])
}
