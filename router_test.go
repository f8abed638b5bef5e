package router

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riogod/router-sub000/internal/errors"
	"github.com/riogod/router-sub000/pkg/routetree"
)

func basicRoutes() []routetree.Definition {
	return []routetree.Definition{
		{Name: "home", Path: "/"},
		{Name: "users", Path: "/users", Children: []routetree.Definition{
			{Name: "list", Path: "/list"},
			{Name: "view", Path: "/:id"},
		}},
		{Name: "search", Path: "/search?q"},
	}
}

func newStartedRouter(t *testing.T, defs []routetree.Definition, opts ...Option) *Router {
	t.Helper()
	opts = append([]Option{WithDefaultRoute("home", nil)}, opts...)
	r, err := New(defs, opts...)
	require.NoError(t, err)
	require.NoError(t, r.Start(context.Background()))
	return r
}

func TestNewRejectsBadDefinitions(t *testing.T) {
	_, err := New([]routetree.Definition{
		{Name: "orphan.child", Path: "/child"},
	})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeParentNotFound))
}

func TestStartCommitsDefaultRoute(t *testing.T) {
	r := newStartedRouter(t, basicRoutes())
	defer r.Teardown()

	state := r.GetState()
	require.NotNil(t, state)
	assert.Equal(t, "home", state.Name)
	assert.True(t, r.IsStarted())
	assert.NotEmpty(t, r.ID())
}

func TestStartWithoutDefaultFails(t *testing.T) {
	r, err := New(basicRoutes())
	require.NoError(t, err)

	err = r.Start(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeNoStartPathOrState))
}

func TestStartTwiceFails(t *testing.T) {
	r := newStartedRouter(t, basicRoutes())
	defer r.Teardown()

	err := r.Start(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeAlreadyStarted))
}

func TestStartPathMatchesInitialState(t *testing.T) {
	r, err := New(basicRoutes(), WithDefaultRoute("home", nil))
	require.NoError(t, err)
	require.NoError(t, r.StartPath(context.Background(), "/users/42"))
	defer r.Teardown()

	state := r.GetState()
	require.NotNil(t, state)
	assert.Equal(t, "users.view", state.Name)
	assert.Equal(t, "42", state.Params["id"])
}

func TestStartPathFallsBackToDefault(t *testing.T) {
	r, err := New(basicRoutes(), WithDefaultRoute("home", nil))
	require.NoError(t, err)
	require.NoError(t, r.StartPath(context.Background(), "/no/such/path"))
	defer r.Teardown()

	assert.Equal(t, "home", r.GetState().Name)
}

func TestStartStateResumesCapturedState(t *testing.T) {
	first := newStartedRouter(t, basicRoutes())
	captured, err := first.Navigate(context.Background(), "users.list", nil)
	require.NoError(t, err)
	first.Teardown()

	second, err := New(basicRoutes())
	require.NoError(t, err)
	require.NoError(t, second.StartState(context.Background(), captured))
	defer second.Teardown()

	assert.Equal(t, "users.list", second.GetState().Name)
}

func TestNavigateBeforeStartFails(t *testing.T) {
	r, err := New(basicRoutes())
	require.NoError(t, err)

	_, err = r.Navigate(context.Background(), "home", nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeNotStarted))
}

func TestStopClearsState(t *testing.T) {
	r := newStartedRouter(t, basicRoutes())

	require.NoError(t, r.Stop())
	assert.Nil(t, r.GetState())
	assert.False(t, r.IsStarted())

	err := r.Stop()
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeNotStarted))
}

func TestNavigateCommitsState(t *testing.T) {
	r := newStartedRouter(t, basicRoutes())
	defer r.Teardown()

	state, err := r.Navigate(context.Background(), "users.view", routetree.Params{"id": "123"})
	require.NoError(t, err)
	assert.Equal(t, "users.view", state.Name)
	assert.Equal(t, "/users/123", state.Path)
	assert.Same(t, state, r.GetState())
}

func TestNavigateUnknownRouteFails(t *testing.T) {
	r := newStartedRouter(t, basicRoutes())
	defer r.Teardown()

	_, err := r.Navigate(context.Background(), "no.such.route", nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeRouteNotFound))
}

func TestNavigateSameStateFails(t *testing.T) {
	r := newStartedRouter(t, basicRoutes())
	defer r.Teardown()

	_, err := r.Navigate(context.Background(), "home", nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeSameStates))
}

func TestNavigateSameStateWithReloadSucceeds(t *testing.T) {
	r := newStartedRouter(t, basicRoutes())
	defer r.Teardown()

	state, err := r.Navigate(context.Background(), "home", nil, WithReload())
	require.NoError(t, err)
	assert.Equal(t, "home", state.Name)
	assert.True(t, state.Meta.Options.Reload)
}

func TestNavigateStampsMonotonicIDs(t *testing.T) {
	r := newStartedRouter(t, basicRoutes())
	defer r.Teardown()

	a, err := r.Navigate(context.Background(), "users.list", nil)
	require.NoError(t, err)
	b, err := r.Navigate(context.Background(), "users.view", routetree.Params{"id": "1"})
	require.NoError(t, err)
	assert.Greater(t, b.Meta.ID, a.Meta.ID)
}

func TestNavigatePathNotFoundState(t *testing.T) {
	r := newStartedRouter(t, basicRoutes(), WithAllowNotFound(true))
	defer r.Teardown()

	state, err := r.NavigatePath(context.Background(), "/missing/page")
	require.NoError(t, err)
	assert.True(t, state.IsNotFound())
	assert.Equal(t, "/missing/page", state.Path)
	assert.Equal(t, "/missing/page", state.Params["path"])
}

func TestNavigatePathFallsBackToDefault(t *testing.T) {
	r := newStartedRouter(t, basicRoutes())
	defer r.Teardown()

	_, err := r.Navigate(context.Background(), "users.list", nil)
	require.NoError(t, err)

	state, err := r.NavigatePath(context.Background(), "/missing/page")
	require.NoError(t, err)
	assert.Equal(t, "home", state.Name)
}

func TestBuildAndMatchRoundTrip(t *testing.T) {
	r := newStartedRouter(t, basicRoutes())
	defer r.Teardown()

	path, err := r.BuildPath("users.view", routetree.Params{"id": "7"})
	require.NoError(t, err)
	assert.Equal(t, "/users/7", path)

	state := r.MatchPath(path)
	require.NotNil(t, state)
	assert.Equal(t, "users.view", state.Name)
	assert.Equal(t, "7", state.Params["id"])
}

func TestIsActive(t *testing.T) {
	r := newStartedRouter(t, basicRoutes())
	defer r.Teardown()

	_, err := r.Navigate(context.Background(), "users.view", routetree.Params{"id": "1"})
	require.NoError(t, err)

	assert.True(t, r.IsActive("users.view", routetree.Params{"id": "1"}, true, false))
	assert.False(t, r.IsActive("users.view", routetree.Params{"id": "2"}, true, false))
	assert.True(t, r.IsActive("users", nil, false, true))
	assert.False(t, r.IsActive("users", nil, true, true))
	assert.False(t, r.IsActive("search", nil, false, true))
}

func TestDependencies(t *testing.T) {
	r := newStartedRouter(t, basicRoutes(), WithDependency("api", "client"))
	defer r.Teardown()

	r.SetDependency("store", 42)

	v, ok := r.Dependency("api")
	require.True(t, ok)
	assert.Equal(t, "client", v)

	deps := r.Dependencies()
	assert.Equal(t, 42, deps["store"])

	// The returned map is a copy.
	deps["store"] = 0
	v, _ = r.Dependency("store")
	assert.Equal(t, 42, v)
}

func TestDynamicAddAndRemove(t *testing.T) {
	r := newStartedRouter(t, basicRoutes())
	defer r.Teardown()

	require.NoError(t, r.Add(routetree.Definition{Name: "about", Path: "/about"}))
	state, err := r.Navigate(context.Background(), "about", nil)
	require.NoError(t, err)
	assert.Equal(t, "/about", state.Path)

	_, err = r.Navigate(context.Background(), "home", nil)
	require.NoError(t, err)

	assert.True(t, r.Remove("about"))
	assert.False(t, r.Remove("about"))

	_, err = r.Navigate(context.Background(), "about", nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeRouteNotFound))
}

func TestGuardRegistrationAfterConstruction(t *testing.T) {
	r := newStartedRouter(t, basicRoutes())
	defer r.Teardown()

	r.CanActivate("users", func(router routetree.Router, deps routetree.Dependencies) routetree.GuardFn {
		return func(ctx context.Context, to, from *routetree.State) error {
			return fmt.Errorf("locked")
		}
	})

	_, err := r.Navigate(context.Background(), "users.list", nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeCannotActivate))

	var rerr *errors.Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "users", rerr.Segment)
}

func TestTitleSink(t *testing.T) {
	var title string
	defs := []routetree.Definition{
		{Name: "home", Path: "/", Title: "Home"},
		{Name: "docs", Path: "/docs", Title: "Docs"},
	}
	r := newStartedRouter(t, defs, WithTitleSink(func(s string) { title = s }))
	defer r.Teardown()

	assert.Equal(t, "Home", title)

	_, err := r.Navigate(context.Background(), "docs", nil)
	require.NoError(t, err)
	assert.Equal(t, "Docs", title)
}
