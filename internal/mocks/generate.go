package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Source --dir ../domain/bracket --output domain/bracket --outpkg bracketmock --filename source_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Sink --dir ../domain/bracket --output domain/bracket --outpkg bracketmock --filename sink_mock.go
