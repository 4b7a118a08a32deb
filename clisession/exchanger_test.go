package clisession_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sfbridge/login-bridge/clisession"
	"github.com/sfbridge/login-bridge/clisession/runnerfake"
	bridgeerrors "github.com/sfbridge/login-bridge/internal/errors"
	"github.com/stretchr/testify/require"
)

const testTimeout = 5 * time.Second

func TestExchangeReturnsSessionURL(t *testing.T) {
	runner := runnerfake.NewFakeRunner()
	runner.Respond("store-credential", runnerfake.Response{Output: []byte(`{"status":0}`)})
	runner.Respond("open-session", runnerfake.Response{Output: []byte(`{"result":{"url":"https://org.my.salesforce.com/secret"}}`)})

	e := clisession.NewExchanger("orgcli", testTimeout, runner)

	sessionURL, err := e.Exchange(context.Background(), "/tmp/authurl-test.tmp")
	require.NoError(t, err)
	require.Equal(t, "https://org.my.salesforce.com/secret", sessionURL)

	invocations := runner.Invocations()
	require.Len(t, invocations, 2)
	require.Equal(t, "orgcli", invocations[0].Name)
	require.Equal(t, []string{"store-credential", "--alias", aliasOf(t, invocations[0].Args), "--file", "/tmp/authurl-test.tmp", "--json"}, invocations[0].Args)
	require.Equal(t, []string{"open-session", "--alias", aliasOf(t, invocations[1].Args), "--url-only", "--json"}, invocations[1].Args)

	// Both steps use the same per-request alias
	require.Equal(t, aliasOf(t, invocations[0].Args), aliasOf(t, invocations[1].Args))
}

func TestExchangeAliasesAreUniquePerRequest(t *testing.T) {
	runner := runnerfake.NewFakeRunner()
	runner.Respond("store-credential", runnerfake.Response{Output: []byte(`{}`)})
	runner.Respond("open-session", runnerfake.Response{Output: []byte(`{"result":{"url":"https://example.com"}}`)})

	e := clisession.NewExchanger("orgcli", testTimeout, runner)

	_, err := e.Exchange(context.Background(), "/tmp/a")
	require.NoError(t, err)
	_, err = e.Exchange(context.Background(), "/tmp/a")
	require.NoError(t, err)

	invocations := runner.Invocations()
	require.Len(t, invocations, 4)
	require.NotEqual(t, aliasOf(t, invocations[0].Args), aliasOf(t, invocations[2].Args))
}

func TestExchangeStoreFailure(t *testing.T) {
	runner := runnerfake.NewFakeRunner()
	runner.Respond("store-credential", runnerfake.Response{Err: errors.New("exit status 1 (invalid auth url)")})

	e := clisession.NewExchanger("orgcli", testTimeout, runner)

	_, err := e.Exchange(context.Background(), "/tmp/a")
	require.ErrorIs(t, err, bridgeerrors.ErrCliStore)

	// open-session must not run when the store step fails
	require.Len(t, runner.Invocations(), 1)
}

func TestExchangeStoreInvalidJSON(t *testing.T) {
	runner := runnerfake.NewFakeRunner()
	runner.Respond("store-credential", runnerfake.Response{Output: []byte("not json")})

	e := clisession.NewExchanger("orgcli", testTimeout, runner)

	_, err := e.Exchange(context.Background(), "/tmp/a")
	require.ErrorIs(t, err, bridgeerrors.ErrCliStore)
}

func TestExchangeOpenFailure(t *testing.T) {
	runner := runnerfake.NewFakeRunner()
	runner.Respond("store-credential", runnerfake.Response{Output: []byte(`{}`)})
	runner.Respond("open-session", runnerfake.Response{Err: errors.New("exit status 1")})

	e := clisession.NewExchanger("orgcli", testTimeout, runner)

	_, err := e.Exchange(context.Background(), "/tmp/a")
	require.ErrorIs(t, err, bridgeerrors.ErrCliOpen)
}

func TestExchangeOpenMissingURL(t *testing.T) {
	runner := runnerfake.NewFakeRunner()
	runner.Respond("store-credential", runnerfake.Response{Output: []byte(`{}`)})
	runner.Respond("open-session", runnerfake.Response{Output: []byte(`{"result":{}}`)})

	e := clisession.NewExchanger("orgcli", testTimeout, runner)

	_, err := e.Exchange(context.Background(), "/tmp/a")
	require.ErrorIs(t, err, bridgeerrors.ErrCliOpen)
}

func TestExchangeTimeoutIsDistinctFromCliErrors(t *testing.T) {
	runner := runnerfake.NewFakeRunner()
	runner.Respond("store-credential", runnerfake.Response{Block: true})

	e := clisession.NewExchanger("orgcli", 20*time.Millisecond, runner)

	_, err := e.Exchange(context.Background(), "/tmp/a")
	require.ErrorIs(t, err, bridgeerrors.ErrTimeout)
	require.NotErrorIs(t, err, bridgeerrors.ErrCliStore)
}

// aliasOf extracts the --alias value from a recorded invocation.
func aliasOf(t *testing.T, args []string) string {
	t.Helper()
	for i, arg := range args {
		if arg == "--alias" && i+1 < len(args) {
			return args[i+1]
		}
	}
	t.Fatalf("no --alias in %v", args)
	return ""
}
