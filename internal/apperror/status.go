package apperror

import (
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func GRPCCode(err error) codes.Code {
	switch RootKind(err) {
	case KindNotFound:
		return codes.NotFound
	case KindInvalidInput:
		return codes.InvalidArgument
	case KindTransactionAborted:
		return codes.Aborted
	default:
		return codes.Internal
	}
}

func HTTPStatus(err error) int {
	switch RootKind(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindTransactionAborted:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// GRPCError converts err into a gRPC status error.
func GRPCError(err error) error {
	if err == nil {
		return nil
	}
	return status.Error(GRPCCode(err), err.Error())
}
