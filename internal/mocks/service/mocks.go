// Package service provides testify mocks for the external collaborator
// interfaces.
package service

import (
	"context"

	"leaseradar/internal/domain/service"

	"github.com/stretchr/testify/mock"
)

type mockConstructorTestingT interface {
	mock.TestingT
	Cleanup(func())
}

// MockListingSearcher mocks service.ListingSearcher.
type MockListingSearcher struct {
	mock.Mock
}

func NewMockListingSearcher(t mockConstructorTestingT) *MockListingSearcher {
	m := &MockListingSearcher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockListingSearcher) Search(ctx context.Context, query service.SearchQuery) (*service.SearchPage, error) {
	args := m.Called(ctx, query)
	page, _ := args.Get(0).(*service.SearchPage)

	return page, args.Error(1)
}

// MockBuildingRegistry mocks service.BuildingRegistry.
type MockBuildingRegistry struct {
	mock.Mock
}

func NewMockBuildingRegistry(t mockConstructorTestingT) *MockBuildingRegistry {
	m := &MockBuildingRegistry{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockBuildingRegistry) FindNearby(ctx context.Context, latitude, longitude float64) ([]service.Building, error) {
	args := m.Called(ctx, latitude, longitude)
	buildings, _ := args.Get(0).([]service.Building)

	return buildings, args.Error(1)
}

// MockSMSSender mocks service.SMSSender.
type MockSMSSender struct {
	mock.Mock
}

func NewMockSMSSender(t mockConstructorTestingT) *MockSMSSender {
	m := &MockSMSSender{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockSMSSender) Send(ctx context.Context, to, body string) (string, error) {
	args := m.Called(ctx, to, body)

	return args.String(0), args.Error(1)
}

// MockEmailSender mocks service.EmailSender.
type MockEmailSender struct {
	mock.Mock
}

func NewMockEmailSender(t mockConstructorTestingT) *MockEmailSender {
	m := &MockEmailSender{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockEmailSender) Send(ctx context.Context, to, subject, htmlBody string) (string, error) {
	args := m.Called(ctx, to, subject, htmlBody)

	return args.String(0), args.Error(1)
}
