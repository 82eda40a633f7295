package forward_test

import (
	"context"
	"errors"
	"testing"

	"github.com/NHSDigital/im1-pfs-auth/forward"
	"github.com/NHSDigital/im1-pfs-auth/forward/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestRouter_RouteAndForward(t *testing.T) {
	request := forward.Request{
		ApplicationID:    "app-1",
		ForwardTo:        "https://emis.com",
		PatientNHSNumber: "9730675988",
		PatientODSCode:   "A12345",
		ProxyNHSNumber:   "9730676445",
	}

	t.Run("dispatches to the client registered for the destination", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		client := mock.NewMockClient(ctrl)
		expected := &forward.Response{SessionID: "session-1", Supplier: "EMIS"}
		client.EXPECT().CreateSession(gomock.Any(), request).Return(expected, nil)
		client.EXPECT().Supplier().Return("EMIS").AnyTimes()

		router := forward.NewRouter(map[string]forward.Client{"https://emis.com": client})
		response, err := router.RouteAndForward(context.Background(), request)

		require.NoError(t, err)
		assert.Same(t, expected, response)
	})
	t.Run("unmapped destination is a downstream error", func(t *testing.T) {
		router := forward.NewRouter(nil)

		response, err := router.RouteAndForward(context.Background(), request)

		assert.Nil(t, response)
		domainErr, ok := forward.AsError(err)
		require.True(t, ok)
		assert.Equal(t, forward.KindDownstream, domainErr.Kind)
	})
	t.Run("taxonomy errors from the client pass through unchanged", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		client := mock.NewMockClient(ctrl)
		client.EXPECT().CreateSession(gomock.Any(), request).Return(nil, forward.NotFound("no account"))
		client.EXPECT().Supplier().Return("EMIS").AnyTimes()

		router := forward.NewRouter(map[string]forward.Client{"https://emis.com": client})
		_, err := router.RouteAndForward(context.Background(), request)

		domainErr, ok := forward.AsError(err)
		require.True(t, ok)
		assert.Equal(t, forward.KindNotFound, domainErr.Kind)
		assert.Equal(t, "no account", domainErr.Detail)
	})
	t.Run("other client errors are wrapped as downstream", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		client := mock.NewMockClient(ctrl)
		cause := errors.New("connection refused")
		client.EXPECT().CreateSession(gomock.Any(), request).Return(nil, cause)
		client.EXPECT().Supplier().Return("EMIS").AnyTimes()

		router := forward.NewRouter(map[string]forward.Client{"https://emis.com": client})
		_, err := router.RouteAndForward(context.Background(), request)

		domainErr, ok := forward.AsError(err)
		require.True(t, ok)
		assert.Equal(t, forward.KindDownstream, domainErr.Kind)
		assert.ErrorIs(t, err, cause)
	})
	t.Run("the dispatch table is copied at construction", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		client := mock.NewMockClient(ctrl)
		table := map[string]forward.Client{"https://emis.com": client}

		router := forward.NewRouter(table)
		delete(table, "https://emis.com")

		client.EXPECT().CreateSession(gomock.Any(), request).Return(&forward.Response{}, nil)
		client.EXPECT().Supplier().Return("EMIS").AnyTimes()
		_, err := router.RouteAndForward(context.Background(), request)
		require.NoError(t, err)
	})
}
