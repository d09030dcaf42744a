package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"stringscan.dev/pkg/stringscan/internal/domain"
	m "stringscan.dev/pkg/stringscan/internal/model"
)

func TestListCmd(t *testing.T) {
	mockWorkflow := useMockWorkflow(t, true)

	mockWorkflow.On("List", mock.Anything, mock.MatchedBy(func(args domain.ListArgs) bool {
		return args.Root == m.Path("Sources") &&
			assert.ObjectsAreEqual([]string{"/Generated/"}, args.Discovery.Exclude)
	})).Return([]m.Path{"Sources/a.swift"}, nil)

	_, err := executeRoot(t, "list", "Sources", "-x", "/Generated/")
	require.NoError(t, err)
}

func TestListCmd_DefaultRoot(t *testing.T) {
	mockWorkflow := useMockWorkflow(t, true)

	mockWorkflow.On("List", mock.Anything, mock.MatchedBy(func(args domain.ListArgs) bool {
		return args.Root == m.Path(".")
	})).Return(nil, nil)

	_, err := executeRoot(t, "list")
	require.NoError(t, err)
}
