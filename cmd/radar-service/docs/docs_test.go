package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestSwaggerDocRenders(t *testing.T) {
	doc, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	require.NoError(t, err)

	var spec map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(doc), &spec))

	paths, ok := spec["paths"].(map[string]interface{})
	require.True(t, ok)
	require.Contains(t, paths, "/analyze")
	require.Contains(t, paths, "/opportunities")
	require.Contains(t, paths, "/market-data/{program}")
	require.Contains(t, paths, "/users/{id}/recommendations")
}
