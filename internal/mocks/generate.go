package mocks

//go:generate mockgen -destination=./mock_datasource.go -package=mocks financeimporter/internal/datasource DataSource
