// Package mocks provides test doubles for the firecrawl client.
package mocks

import (
	"context"

	firecrawl "github.com/sells-group/consult-cli/pkg/firecrawl"
	mock "github.com/stretchr/testify/mock"
)

// MockClient is a mock type for the Client interface.
type MockClient struct {
	mock.Mock
}

// MockClient_Expecter provides typed expectation helpers.
type MockClient_Expecter struct {
	mock *mock.Mock
}

// EXPECT returns the typed expecter.
func (_m *MockClient) EXPECT() *MockClient_Expecter {
	return &MockClient_Expecter{mock: &_m.Mock}
}

// Scrape provides a mock function with given fields: ctx, req
func (_m *MockClient) Scrape(ctx context.Context, req firecrawl.ScrapeRequest) (*firecrawl.ScrapeResponse, error) {
	ret := _m.Called(ctx, req)

	if len(ret) == 0 {
		panic("no return value specified for Scrape")
	}

	var r0 *firecrawl.ScrapeResponse
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, firecrawl.ScrapeRequest) (*firecrawl.ScrapeResponse, error)); ok {
		return rf(ctx, req)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*firecrawl.ScrapeResponse)
	}
	r1 = ret.Error(1)

	return r0, r1
}

// MockClient_Scrape_Call wraps a Scrape expectation.
type MockClient_Scrape_Call struct {
	*mock.Call
}

// Scrape registers an expectation for Scrape.
func (_e *MockClient_Expecter) Scrape(ctx any, req any) *MockClient_Scrape_Call {
	return &MockClient_Scrape_Call{Call: _e.mock.On("Scrape", ctx, req)}
}

// Return sets the values returned by the expected call.
func (_c *MockClient_Scrape_Call) Return(_a0 *firecrawl.ScrapeResponse, _a1 error) *MockClient_Scrape_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

// NewMockClient creates a MockClient and registers expectation assertions on cleanup.
func NewMockClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockClient {
	m := &MockClient{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
