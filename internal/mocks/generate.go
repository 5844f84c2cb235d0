// Package mocks provides gomock mocks of the remote store port.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	remote := mocks.NewMockRemoteClient(ctrl)
//	remote.EXPECT().GetCallerUserProfile(gomock.Any()).Return(nil, nil)
package mocks

// Generate mock for RemoteClient interface from internal/ports package.
// This creates MockRemoteClient with one method per remote store operation.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=remote_client_mock.go github.com/tripmate/tripmate-client/internal/ports RemoteClient
