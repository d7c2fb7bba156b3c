package utilities

import (
	"encoding/json"
	"os"
)

// JsonConfigObj is implemented by the JSON-shaped config structs
// (logger, rabbitmq, record store, inscription tunables). Each maps
// itself into the domain type the rest of the service consumes, so
// json tags never leak past the config boundary.
type JsonConfigObj[T any] interface {
	ConvertToDomain() T
}

// ReadConfig loads a JSON config file and returns its domain form.
func ReadConfig[T JsonConfigObj[U], U any](file string) (U, error) {
	var empty U

	fileContent, err := os.ReadFile(file)
	if err != nil {
		return empty, err
	}

	var config T
	err = json.Unmarshal(fileContent, &config)
	if err != nil {
		return empty, err
	}

	return config.ConvertToDomain(), nil
}

func ConvertJsonArrayToDomain[T JsonConfigObj[U], U any](jsonArray []T) []U {
	var domainArray []U
	for _, item := range jsonArray {
		domainArray = append(domainArray, item.ConvertToDomain())
	}
	return domainArray
}
