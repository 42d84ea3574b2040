package dataapi

import (
	"errors"
	"strings"

	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/rdsdataservice"
)

// resumingMessage is what a paused Aurora Serverless cluster answers with
// while it wakes up
const resumingMessage = "Communications link failure"

// IsTransient reports whether a Data API failure is worth retrying
func IsTransient(err error) bool {
	var aerr awserr.Error
	if !errors.As(err, &aerr) {
		return false
	}

	switch aerr.Code() {
	case rdsdataservice.ErrCodeServiceUnavailableError,
		rdsdataservice.ErrCodeInternalServerErrorException:
		return true
	case rdsdataservice.ErrCodeBadRequestException:
		return strings.Contains(aerr.Message(), resumingMessage)
	}
	return false
}
