package transitionpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riogod/router-sub000/pkg/routetree"
)

// makeState builds a state with a full per-segment schema: every segment
// declares the params listed for it.
func makeState(name string, params routetree.Params, schema map[string]routetree.Params, opts routetree.NavigationOptions) *routetree.State {
	if schema == nil {
		schema = map[string]routetree.Params{}
		for _, id := range routetree.NameToIDs(name) {
			schema[id] = routetree.Params{}
		}
	}
	return &routetree.State{
		Name:   name,
		Params: params,
		Meta:   &routetree.Meta{Params: schema, Options: opts},
	}
}

func TestComputeNoFromState(t *testing.T) {
	path := Compute(makeState("a.b.c", nil, nil, routetree.NavigationOptions{}), nil)

	assert.Equal(t, "", path.Intersection)
	assert.Empty(t, path.ToDeactivate)
	assert.Equal(t, []string{"a", "a.b", "a.b.c"}, path.ToActivate)
}

func TestComputeIdenticalStates(t *testing.T) {
	to := makeState("a.b.c", nil, nil, routetree.NavigationOptions{})
	from := makeState("a.b.c", nil, nil, routetree.NavigationOptions{})

	path := Compute(to, from)
	assert.Equal(t, "a.b.c", path.Intersection)
	assert.Empty(t, path.ToDeactivate)
	assert.Empty(t, path.ToActivate)
}

func TestComputeReloadRetraversesAll(t *testing.T) {
	to := makeState("a.b", nil, nil, routetree.NavigationOptions{Reload: true})
	from := makeState("a.b", nil, nil, routetree.NavigationOptions{})

	path := Compute(to, from)
	assert.Equal(t, "", path.Intersection)
	assert.Equal(t, []string{"a", "a.b"}, path.ToActivate)
	assert.Equal(t, []string{"a.b", "a"}, path.ToDeactivate)
}

func TestComputeSiblingBranches(t *testing.T) {
	to := makeState("a.b.c.d", nil, nil, routetree.NavigationOptions{})
	from := makeState("a.b.e.f", nil, nil, routetree.NavigationOptions{})

	path := Compute(to, from)
	assert.Equal(t, "a.b", path.Intersection)
	assert.Equal(t, []string{"a.b.c", "a.b.c.d"}, path.ToActivate)
	assert.Equal(t, []string{"a.b.e.f", "a.b.e"}, path.ToDeactivate)
}

func TestComputeDescendIntoChild(t *testing.T) {
	to := makeState("a.b.c", nil, nil, routetree.NavigationOptions{})
	from := makeState("a.b", nil, nil, routetree.NavigationOptions{})

	path := Compute(to, from)
	assert.Equal(t, "a.b", path.Intersection)
	assert.Equal(t, []string{"a.b.c"}, path.ToActivate)
	assert.Empty(t, path.ToDeactivate)
}

func TestComputeAscendToParent(t *testing.T) {
	to := makeState("a.b", nil, nil, routetree.NavigationOptions{})
	from := makeState("a.b.c", nil, nil, routetree.NavigationOptions{})

	path := Compute(to, from)
	assert.Equal(t, "a.b", path.Intersection)
	assert.Empty(t, path.ToActivate)
	assert.Equal(t, []string{"a.b.c"}, path.ToDeactivate)
}

func TestComputeParamValueChangeDiverges(t *testing.T) {
	schema := map[string]routetree.Params{
		"users":      {},
		"users.view": {"id": routetree.ParamSourceURL},
	}
	to := makeState("users.view", routetree.Params{"id": "2"}, schema, routetree.NavigationOptions{})
	from := makeState("users.view", routetree.Params{"id": "1"}, schema, routetree.NavigationOptions{})

	path := Compute(to, from)
	assert.Equal(t, "users", path.Intersection)
	assert.Equal(t, []string{"users.view"}, path.ToActivate)
	assert.Equal(t, []string{"users.view"}, path.ToDeactivate)
}

func TestComputeSchemaAsymmetryDiverges(t *testing.T) {
	// The segment declared no params in the source state but declares some
	// in the target state.
	toSchema := map[string]routetree.Params{
		"list": {"page": routetree.ParamSourceQuery},
	}
	fromSchema := map[string]routetree.Params{
		"list": {},
	}
	to := makeState("list", routetree.Params{"page": "1"}, toSchema, routetree.NavigationOptions{})
	from := makeState("list", routetree.Params{"page": "1"}, fromSchema, routetree.NavigationOptions{})

	path := Compute(to, from)
	assert.Equal(t, "", path.Intersection)
	assert.Equal(t, []string{"list"}, path.ToActivate)
	assert.Equal(t, []string{"list"}, path.ToDeactivate)
}

func TestComputeUnchangedParamsShareSegment(t *testing.T) {
	schema := map[string]routetree.Params{
		"users":      {},
		"users.view": {"id": routetree.ParamSourceURL},
	}
	to := makeState("users.view", routetree.Params{"id": "1"}, schema, routetree.NavigationOptions{})
	from := makeState("users.view", routetree.Params{"id": "1"}, schema, routetree.NavigationOptions{})

	path := Compute(to, from)
	assert.Equal(t, "users.view", path.Intersection)
	assert.Empty(t, path.ToActivate)
	assert.Empty(t, path.ToDeactivate)
}

func TestShouldUpdateNode(t *testing.T) {
	to := makeState("a.b.c", nil, nil, routetree.NavigationOptions{})
	from := makeState("a.d", nil, nil, routetree.NavigationOptions{})

	// Intersection is "a"; activated nodes are a.b and a.b.c.
	assert.True(t, ShouldUpdateNode("a", to, from))
	assert.True(t, ShouldUpdateNode("a.b", to, from))
	assert.True(t, ShouldUpdateNode("a.b.c", to, from))
	assert.False(t, ShouldUpdateNode("a.d", to, from))
	assert.False(t, ShouldUpdateNode("unrelated", to, from))
}

func TestShouldUpdateNodeReloadAlwaysTrue(t *testing.T) {
	to := makeState("a.b", nil, nil, routetree.NavigationOptions{Reload: true})
	from := makeState("a.b", nil, nil, routetree.NavigationOptions{})

	require.True(t, ShouldUpdateNode("anything", to, from))
	require.True(t, ShouldUpdateNode("a.b", to, from))
}
