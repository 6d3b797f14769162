/*
Copyright 2024 Blnk Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package mocks

import (
	"context"

	"github.com/chihoangvnn/regiond/model"
	"github.com/stretchr/testify/mock"
)

// MockDataSource is a mock implementation of the IDataSource interface
type MockDataSource struct {
	mock.Mock
}

func (m *MockDataSource) CreateSocialAccount(ctx context.Context, account model.SocialAccount) (model.SocialAccount, error) {
	args := m.Called(ctx, account)
	return args.Get(0).(model.SocialAccount), args.Error(1)
}

func (m *MockDataSource) GetSocialAccount(ctx context.Context, id string) (*model.SocialAccount, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SocialAccount), args.Error(1)
}

func (m *MockDataSource) GetAllSocialAccounts(ctx context.Context, platform string, limit, offset int) ([]model.SocialAccount, error) {
	args := m.Called(ctx, platform, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SocialAccount), args.Error(1)
}

func (m *MockDataSource) UpdateSocialAccountMetadata(ctx context.Context, id string, metadata map[string]interface{}) error {
	args := m.Called(ctx, id, metadata)
	return args.Error(0)
}
