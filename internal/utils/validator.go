package utils

import (
	"errors"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	"github.com/qtr-deagle/trendle-backend/internal/logger"
	"go.uber.org/zap"
)

// 全局验证器
var (
	validate *validator.Validate
	trans    ut.Translator
)

// InitValidator 初始化验证器
func InitValidator() {
	// 创建验证器
	validate = validator.New()

	// 注册自定义标签名称
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return fld.Name
		}
		return name
	})

	// 创建中文翻译器
	zhTrans := zh.New()
	uni := ut.New(zhTrans, zhTrans)
	trans, _ = uni.GetTranslator("zh")

	// 注册中文翻译
	err := zh_translations.RegisterDefaultTranslations(validate, trans)
	if err != nil {
		logger.Error("注册验证器翻译失败", zap.Error(err))
		return
	}

	// 注册自定义验证器
	registerCustomValidators()
}

// registerCustomValidators 注册自定义验证器
func registerCustomValidators() {
	// 举报状态验证器
	_ = validate.RegisterValidation("report_status", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		return value == "resolved" || value == "dismissed"
	})
}

// BindAndValidate 绑定并验证请求数据
func BindAndValidate(c *gin.Context, obj interface{}) error {
	// 根据请求类型选择绑定方法
	var err error
	switch c.Request.Method {
	case "GET":
		err = c.ShouldBindQuery(obj)
	default:
		err = c.ShouldBindJSON(obj)
	}

	// 处理绑定错误
	if err != nil {
		logger.Warn("请求数据绑定失败",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
		return err
	}

	if validate == nil {
		InitValidator()
	}

	// 验证
	err = validate.Struct(obj)
	if err != nil {
		logger.Warn("数据验证失败",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))

		// 如果是验证错误，翻译错误信息
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			errMsgs := []string{}
			for _, e := range validationErrors {
				errMsgs = append(errMsgs, e.Translate(trans))
			}
			return errors.New(strings.Join(errMsgs, "; "))
		}

		return err
	}

	return nil
}
