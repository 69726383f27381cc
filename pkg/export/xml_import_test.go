package export

import (
	"testing"

	"github.com/phindler/fpdviz/pkg/fpb"
	"github.com/phindler/fpdviz/pkg/model"
)

func TestParseXML_RoundTrip(t *testing.T) {
	original := fpb.Parse(flatSource)
	out, err := XML(original)
	if err != nil {
		t.Fatalf("XML() error = %v", err)
	}

	imported, err := ParseXML(out)
	if err != nil {
		t.Fatalf("ParseXML() error = %v", err)
	}

	if imported.Title != original.Title {
		t.Errorf("Title = %q, want %q", imported.Title, original.Title)
	}
	if len(imported.States) != len(original.States) ||
		len(imported.ProcessOperators) != len(original.ProcessOperators) ||
		len(imported.TechnicalResources) != len(original.TechnicalResources) {
		t.Errorf("element counts changed: %d/%d/%d, want %d/%d/%d",
			len(imported.States), len(imported.ProcessOperators), len(imported.TechnicalResources),
			len(original.States), len(original.ProcessOperators), len(original.TechnicalResources))
	}
	if len(imported.Flows) != len(original.Flows) {
		t.Errorf("flows = %d, want %d", len(imported.Flows), len(original.Flows))
	}
	if len(imported.Usages) != len(original.Usages) {
		t.Errorf("usages = %d, want %d", len(imported.Usages), len(original.Usages))
	}

	for i, f := range original.Flows {
		got := imported.Flows[i]
		if got.SourceRef != f.SourceRef || got.TargetRef != f.TargetRef || got.Type != f.Type {
			t.Errorf("flow %d = %+v, want %+v", i, got, f)
		}
	}
}

const legacyXML = `<?xml version="1.0" encoding="UTF-8"?>
<project xmlns="http://www.vdivde.de/3682">
  <process id="process_1">
    <systemLimit id="sl_1" name="Legacy Process"/>
    <states>
      <state stateType="product">
        <identification uniqueIdent="raw" longName="Raw Part"/>
      </state>
      <state stateType="product">
        <identification uniqueIdent="done" longName="Finished"/>
      </state>
    </states>
    <processOperators>
      <processOperator>
        <identification uniqueIdent="mill" longName="Milling"/>
      </processOperator>
    </processOperators>
    <technicalResources>
      <technicalResource>
        <identification uniqueIdent="machine" longName="CNC"/>
      </technicalResource>
    </technicalResources>
    <flowContainer>
      <flow id="f1" flowType="flow">
        <sourceRef>raw</sourceRef>
        <targetRef>mill</targetRef>
      </flow>
      <flow id="f2" flowType="alternativeFlow">
        <sourceRef>mill</sourceRef>
        <targetRef>done</targetRef>
      </flow>
      <usage id="u1">
        <sourceRef>mill</sourceRef>
        <targetRef>machine</targetRef>
      </usage>
    </flowContainer>
  </process>
</project>`

func TestParseXML_LegacyDialect(t *testing.T) {
	m, err := ParseXML([]byte(legacyXML))
	if err != nil {
		t.Fatalf("ParseXML() error = %v", err)
	}

	if m.Title != "Legacy Process" {
		t.Errorf("Title = %q, want Legacy Process", m.Title)
	}
	if len(m.Flows) != 2 {
		t.Fatalf("flows = %d, want 2", len(m.Flows))
	}
	if m.Flows[0].SourceRef != "raw" || m.Flows[0].TargetRef != "mill" {
		t.Errorf("flow 0 = %+v", m.Flows[0])
	}
	if m.Flows[1].Type != model.FlowAlternative {
		t.Errorf("flow 1 type = %v, want alternative", m.Flows[1].Type)
	}
	if len(m.Usages) != 1 || m.Usages[0].ProcessOperatorRef != "mill" || m.Usages[0].TechnicalResourceRef != "machine" {
		t.Errorf("usages = %+v", m.Usages)
	}
}

func TestParseXML_Invalid(t *testing.T) {
	if _, err := ParseXML([]byte("<project><unterminated")); err == nil {
		t.Error("ParseXML() with broken XML must fail")
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		content  string
		want     string
		wantErr  bool
	}{
		{"xml extension", "a.xml", "", "xml", false},
		{"fpb extension", "a.fpb", "", "text", false},
		{"txt extension", "a.TXT", "", "text", false},
		{"xml content", "upload", "<?xml version=\"1.0\"?><project/>", "xml", false},
		{"fpb content", "upload", "@startfpb\n@endfpb", "text", false},
		{"unknown", "upload.bin", "garbage", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectFormat(tt.filename, tt.content)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DetectFormat() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("DetectFormat() = %q, want %q", got, tt.want)
			}
		})
	}
}
