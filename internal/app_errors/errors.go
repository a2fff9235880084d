package app_errors

import "errors"

var ErrUserExists = errors.New("user already exists")
var ErrUserNotFound = errors.New("user not found")
var ErrIncorrectPassword = errors.New("incorrect password")
var ErrTokenNotFound = errors.New("token not found")
var ErrTokenExpired = errors.New("token expired")
var ErrCourseNotFound = errors.New("course not found")
var ErrLessonNotFound = errors.New("lesson not found")
var ErrGroupNotFound = errors.New("group not found")
var ErrSubscriptionNotFound = errors.New("subscription not found")
var ErrBalanceNotFound = errors.New("balance not found")
var ErrAlreadySubscribed = errors.New("you are already subscribed to this course")
var ErrInsufficientFunds = errors.New("insufficient funds")
var ErrInvalidAmount = errors.New("amount must not be negative")
var ErrForbidden = errors.New("you do not have permission to perform this action")
var ErrNotImage = errors.New("not image")
var ErrFileSize = errors.New("file size error")
var ErrLogoStorageDisabled = errors.New("logo storage is not configured")
var ErrValidation = errors.New("invalid input")
var ErrInvalidToken = errors.New("invalid token")
